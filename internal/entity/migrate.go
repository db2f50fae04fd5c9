package entity

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&LotteryRound{},
		&LotteryEntry{},
		&LotteryWinner{},
		&PointTransaction{},
		&PointBalance{},
	)
}
