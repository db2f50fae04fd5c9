package main

import (
	"github.com/minsuRob/sportcomm-lottery/internal/domain/cron"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(cctx *cli.Context) error {
	if err := s.loadContext(cctx); err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(
		s.ctx,
		cron.NewLotteryRoundCronJob(
			s.lotterySchedulerDomain,
			xcontext.Configs(s.ctx).Lottery.TickInterval,
		),
	)

	return nil
}
