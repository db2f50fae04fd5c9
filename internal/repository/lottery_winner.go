package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"gorm.io/gorm"
)

type LotteryWinnerRepository interface {
	Create(ctx context.Context, winner *entity.LotteryWinner) error
	GetByRoundID(ctx context.Context, roundID string) ([]entity.LotteryWinner, error)
	CountByRoundID(ctx context.Context, roundID string) (int64, error)
}

type lotteryWinnerRepository struct{}

func NewLotteryWinnerRepository() *lotteryWinnerRepository {
	return &lotteryWinnerRepository{}
}

func (r *lotteryWinnerRepository) Create(ctx context.Context, winner *entity.LotteryWinner) error {
	return xcontext.DB(ctx).Create(winner).Error
}

func (r *lotteryWinnerRepository) GetByRoundID(ctx context.Context, roundID string) ([]entity.LotteryWinner, error) {
	var result []entity.LotteryWinner
	err := xcontext.DB(ctx).
		Where("round_id=?", roundID).
		Order("`rank` ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryWinnerRepository) CountByRoundID(ctx context.Context, roundID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.LotteryWinner{}).
		Where("round_id=?", roundID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// IsDuplicateKeyError reports whether err came from a violated uniqueness
// constraint. The string fallbacks cover drivers that predate gorm's error
// translation.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
