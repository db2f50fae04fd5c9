package entity

import (
	"time"

	"github.com/minsuRob/sportcomm-lottery/pkg/enum"
)

type LotteryRoundStatus string

var (
	RoundEntry     = enum.New(LotteryRoundStatus("entry"))
	RoundAnnounce  = enum.New(LotteryRoundStatus("announce"))
	RoundCompleted = enum.New(LotteryRoundStatus("completed"))
)

// LotteryRound is one complete draw cycle. TotalPrizePoints and WinnerCount
// are snapshotted from the configuration at creation time so in-flight rounds
// never change shape.
type LotteryRound struct {
	Base

	RoundNumber int64 `gorm:"unique"`

	EntryOpensAt   time.Time
	EntryClosesAt  time.Time
	AnnounceEndsAt time.Time

	TotalPrizePoints uint64
	WinnerCount      int

	Status LotteryRoundStatus `gorm:"index"`
}

// LotteryEntry is a user's free, one-time admission into a round. The
// compound primary key is the uniqueness constraint that makes duplicate
// submissions race-safe; rows are never updated or deleted.
type LotteryEntry struct {
	CreatedAt time.Time

	RoundID string       `gorm:"primaryKey"`
	Round   LotteryRound `gorm:"foreignKey:RoundID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`
}

// LotteryWinner rows are written exactly once per round at settlement. The
// compound primary key doubles as the settlement idempotence guard.
type LotteryWinner struct {
	CreatedAt time.Time

	RoundID string       `gorm:"primaryKey;uniqueIndex:idx_lottery_winners_round_rank"`
	Round   LotteryRound `gorm:"foreignKey:RoundID"`

	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	Rank        int `gorm:"uniqueIndex:idx_lottery_winners_round_rank"`
	PrizePoints uint64
}
