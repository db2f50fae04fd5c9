package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"gorm.io/gorm"
)

// PointLedgerRepository is the only component allowed to mutate a user's
// point balance. Every credit appends a PointTransaction and updates the
// materialized PointBalance in the caller's database transaction.
type PointLedgerRepository interface {
	Credit(ctx context.Context, userID string, amount int64, reason string, roundID string) error
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetTransactionsByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.PointTransaction, error)
}

type pointLedgerRepository struct{}

func NewPointLedgerRepository() *pointLedgerRepository {
	return &pointLedgerRepository{}
}

func (r *pointLedgerRepository) Credit(
	ctx context.Context, userID string, amount int64, reason string, roundID string,
) error {
	tx := &entity.PointTransaction{
		Base:   entity.Base{ID: uuid.NewString()},
		UserID: userID,
		Amount: amount,
		Reason: reason,
	}

	if roundID != "" {
		tx.RoundID = sql.NullString{String: roundID, Valid: true}
	}

	if err := xcontext.DB(ctx).Create(tx).Error; err != nil {
		return err
	}

	update := xcontext.DB(ctx).Model(&entity.PointBalance{}).
		Where("user_id=?", userID).
		Update("points", gorm.Expr("points+?", amount))
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return xcontext.DB(ctx).Create(&entity.PointBalance{UserID: userID, Points: amount}).Error
	}

	return nil
}

func (r *pointLedgerRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	var balance entity.PointBalance
	err := xcontext.DB(ctx).Take(&balance, "user_id=?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return balance.Points, nil
}

func (r *pointLedgerRepository) GetTransactionsByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.PointTransaction, error) {
	var result []entity.PointTransaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
