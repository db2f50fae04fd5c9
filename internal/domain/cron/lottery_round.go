package cron

import (
	"context"
	"time"

	"github.com/minsuRob/sportcomm-lottery/internal/domain"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
)

// LotteryRoundCronJob drives the round state machine. Every firing is a full
// Tick, so a missed firing is recovered by the next one.
type LotteryRoundCronJob struct {
	schedulerDomain domain.LotterySchedulerDomain
	interval        time.Duration
}

func NewLotteryRoundCronJob(
	schedulerDomain domain.LotterySchedulerDomain,
	interval time.Duration,
) *LotteryRoundCronJob {
	return &LotteryRoundCronJob{schedulerDomain: schedulerDomain, interval: interval}
}

func (job *LotteryRoundCronJob) Do(ctx context.Context) {
	if err := job.schedulerDomain.Tick(ctx, time.Now()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot tick the lottery scheduler: %v", err)
	}
}

func (job *LotteryRoundCronJob) RunNow() bool {
	return true
}

func (job *LotteryRoundCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
