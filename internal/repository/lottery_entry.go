package repository

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

type LotteryEntryRepository interface {
	// Create relies on the (round_id, user_id) primary key to reject
	// duplicate entries; callers check the error with IsDuplicateKeyError.
	Create(ctx context.Context, entry *entity.LotteryEntry) error
	Get(ctx context.Context, roundID, userID string) (*entity.LotteryEntry, error)
	CountByRoundID(ctx context.Context, roundID string) (int64, error)

	// GetUserIDsByRoundID returns the frozen entrant list in a canonical
	// order so seeded winner selection is reproducible.
	GetUserIDsByRoundID(ctx context.Context, roundID string) ([]string, error)

	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.LotteryEntry, error)
}

type lotteryEntryRepository struct{}

func NewLotteryEntryRepository() *lotteryEntryRepository {
	return &lotteryEntryRepository{}
}

func (r *lotteryEntryRepository) Create(ctx context.Context, entry *entity.LotteryEntry) error {
	return xcontext.DB(ctx).Create(entry).Error
}

func (r *lotteryEntryRepository) Get(ctx context.Context, roundID, userID string) (*entity.LotteryEntry, error) {
	var result entity.LotteryEntry
	err := xcontext.DB(ctx).Take(&result, "round_id=? AND user_id=?", roundID, userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryEntryRepository) CountByRoundID(ctx context.Context, roundID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.LotteryEntry{}).
		Where("round_id=?", roundID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *lotteryEntryRepository) GetUserIDsByRoundID(ctx context.Context, roundID string) ([]string, error) {
	var result []string
	err := xcontext.DB(ctx).Model(&entity.LotteryEntry{}).
		Where("round_id=?", roundID).
		Order("created_at ASC, user_id ASC").
		Pluck("user_id", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryEntryRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.LotteryEntry, error) {
	var result []entity.LotteryEntry
	err := xcontext.DB(ctx).
		Preload("Round").
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
