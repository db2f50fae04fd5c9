package migration

import (
	"context"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

// Rounds created before winner_count was snapshotted per round.
func migrate0001(ctx context.Context) error {
	migrator := xcontext.DB(ctx).Migrator()
	if !migrator.HasColumn(&entity.LotteryRound{}, "winner_count") {
		return migrator.AddColumn(&entity.LotteryRound{}, "winner_count")
	}

	return nil
}
