package model

import (
	"time"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:   user.ID,
		Name: user.Name,
		Role: string(user.Role),
	}
}

func ConvertLotteryRound(round *entity.LotteryRound) LotteryRound {
	if round == nil {
		return LotteryRound{}
	}

	return LotteryRound{
		ID:               round.ID,
		RoundNumber:      round.RoundNumber,
		Status:           string(round.Status),
		EntryOpensAt:     round.EntryOpensAt.Format(DefaultTimeLayout),
		EntryClosesAt:    round.EntryClosesAt.Format(DefaultTimeLayout),
		AnnounceEndsAt:   round.AnnounceEndsAt.Format(DefaultTimeLayout),
		TotalPrizePoints: round.TotalPrizePoints,
		WinnerCount:      round.WinnerCount,
	}
}

func ConvertLotteryWinner(winner *entity.LotteryWinner, user *entity.User) LotteryWinner {
	if winner == nil {
		return LotteryWinner{}
	}

	name := ""
	if user != nil {
		name = user.Name
	}

	return LotteryWinner{
		UserID:      winner.UserID,
		Name:        name,
		Rank:        winner.Rank,
		PrizePoints: winner.PrizePoints,
	}
}

func ConvertLotteryEntry(entry *entity.LotteryEntry, round *entity.LotteryRound) LotteryEntry {
	if entry == nil {
		return LotteryEntry{}
	}

	roundNumber := int64(0)
	if round != nil {
		roundNumber = round.RoundNumber
	}

	return LotteryEntry{
		RoundID:     entry.RoundID,
		RoundNumber: roundNumber,
		UserID:      entry.UserID,
		CreatedAt:   entry.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPointTransaction(tx *entity.PointTransaction) PointTransaction {
	if tx == nil {
		return PointTransaction{}
	}

	roundID := ""
	if tx.RoundID.Valid {
		roundID = tx.RoundID.String
	}

	return PointTransaction{
		ID:        tx.ID,
		Amount:    tx.Amount,
		Reason:    tx.Reason,
		RoundID:   roundID,
		CreatedAt: tx.CreatedAt.Format(DefaultTimeLayout),
	}
}
