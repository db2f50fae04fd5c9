package repository

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryRoundRepository interface {
	Create(ctx context.Context, round *entity.LotteryRound) error
	GetByID(ctx context.Context, roundID string) (*entity.LotteryRound, error)

	// GetCurrent returns the single round whose status is entry or announce.
	GetCurrent(ctx context.Context) (*entity.LotteryRound, error)

	// GetLast returns the round with the highest round number regardless of
	// status.
	GetLast(ctx context.Context) (*entity.LotteryRound, error)

	// ClaimStatusTransition conditionally moves the round from one status to
	// another. It returns gorm.ErrRecordNotFound if the round is no longer in
	// the expected status, meaning another worker claimed the transition.
	ClaimStatusTransition(ctx context.Context, roundID string, from, to entity.LotteryRoundStatus) error

	// GetEndedList returns settled rounds (announce or completed), newest
	// first.
	GetEndedList(ctx context.Context, offset, limit int) ([]entity.LotteryRound, error)
}

type lotteryRoundRepository struct{}

func NewLotteryRoundRepository() *lotteryRoundRepository {
	return &lotteryRoundRepository{}
}

func (r *lotteryRoundRepository) Create(ctx context.Context, round *entity.LotteryRound) error {
	return xcontext.DB(ctx).Create(round).Error
}

func (r *lotteryRoundRepository) GetByID(ctx context.Context, roundID string) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	if err := xcontext.DB(ctx).Take(&result, "id=?", roundID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRoundRepository) GetCurrent(ctx context.Context) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).
		Where("status IN (?)", []entity.LotteryRoundStatus{entity.RoundEntry, entity.RoundAnnounce}).
		Order("round_number DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRoundRepository) GetLast(ctx context.Context) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).Order("round_number DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRoundRepository) ClaimStatusTransition(
	ctx context.Context, roundID string, from, to entity.LotteryRoundStatus,
) error {
	tx := xcontext.DB(ctx).Model(&entity.LotteryRound{}).
		Where("id=? AND status=?", roundID, from).
		Update("status", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRoundRepository) GetEndedList(
	ctx context.Context, offset, limit int,
) ([]entity.LotteryRound, error) {
	var result []entity.LotteryRound
	err := xcontext.DB(ctx).
		Where("status IN (?)", []entity.LotteryRoundStatus{entity.RoundAnnounce, entity.RoundCompleted}).
		Order("round_number DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
