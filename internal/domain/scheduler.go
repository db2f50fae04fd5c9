package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minsuRob/sportcomm-lottery/internal/common"
	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/internal/repository"
	"github.com/minsuRob/sportcomm-lottery/pkg/crypto"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/minsuRob/sportcomm-lottery/pkg/xredis"
	"gorm.io/gorm"
)

// maxTickSteps bounds catch-up after long downtime. One step performs at
// most one phase transition, so 1000 steps cover well over a month of
// missed hourly cycles in a single tick.
const maxTickSteps = 1000

type LotterySchedulerDomain interface {
	// Tick advances the round state machine to match the given wall clock.
	// It is safe to call from multiple workers concurrently, every phase
	// transition is claimed with a conditional update and losers back off.
	Tick(ctx context.Context, now time.Time) error
}

type lotterySchedulerDomain struct {
	lotteryRoundRepo  repository.LotteryRoundRepository
	lotteryEntryRepo  repository.LotteryEntryRepository
	lotteryWinnerRepo repository.LotteryWinnerRepository
	pointLedgerRepo   repository.PointLedgerRepository
	redisClient       xredis.Client
}

func NewLotterySchedulerDomain(
	lotteryRoundRepo repository.LotteryRoundRepository,
	lotteryEntryRepo repository.LotteryEntryRepository,
	lotteryWinnerRepo repository.LotteryWinnerRepository,
	pointLedgerRepo repository.PointLedgerRepository,
	redisClient xredis.Client,
) *lotterySchedulerDomain {
	return &lotterySchedulerDomain{
		lotteryRoundRepo:  lotteryRoundRepo,
		lotteryEntryRepo:  lotteryEntryRepo,
		lotteryWinnerRepo: lotteryWinnerRepo,
		pointLedgerRepo:   pointLedgerRepo,
		redisClient:       redisClient,
	}
}

func (d *lotterySchedulerDomain) Tick(ctx context.Context, now time.Time) error {
	for i := 0; i < maxTickSteps; i++ {
		advanced, err := d.step(ctx, now)
		if err != nil {
			return err
		}

		if !advanced {
			return nil
		}
	}

	return fmt.Errorf("round state machine did not converge after %d steps", maxTickSteps)
}

func (d *lotterySchedulerDomain) step(ctx context.Context, now time.Time) (bool, error) {
	round, err := d.lotteryRoundRepo.GetCurrent(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		if err := d.openRound(ctx, now); err != nil {
			return false, err
		}

		// The fresh round can already be past its entry deadline when the
		// process was down for part of a cycle, so run another step.
		return true, nil
	}

	switch round.Status {
	case entity.RoundEntry:
		if now.Before(round.EntryClosesAt) {
			return false, nil
		}

		if err := d.settle(ctx, round); err != nil {
			return false, err
		}

		return true, nil

	case entity.RoundAnnounce:
		if now.Before(round.AnnounceEndsAt) {
			return false, nil
		}

		err := d.lotteryRoundRepo.ClaimStatusTransition(
			ctx, round.ID, entity.RoundAnnounce, entity.RoundCompleted)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, err
		}

		return true, nil
	}

	return false, nil
}

// settle freezes the entrant list, selects winners, and credits prizes in a
// single database transaction. The entry to announce transition is claimed
// first inside that transaction, so exactly one worker settles each round no
// matter how many race here.
func (d *lotterySchedulerDomain) settle(ctx context.Context, round *entity.LotteryRound) error {
	if d.redisClient != nil {
		// Advisory only. The conditional status update below is the real
		// guard, this just spares concurrent workers a wasted transaction.
		acquired, err := d.redisClient.SetNX(
			ctx, common.RedisKeyRoundSettlement(round.ID), "1", time.Minute)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot acquire settlement lock: %v", err)
		} else if !acquired {
			return nil
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err := d.lotteryRoundRepo.ClaimStatusTransition(
		ctx, round.ID, entity.RoundEntry, entity.RoundAnnounce)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	entrants, err := d.lotteryEntryRepo.GetUserIDsByRoundID(ctx, round.ID)
	if err != nil {
		return err
	}

	winners := SelectWinners(
		entrants, round.WinnerCount, round.TotalPrizePoints, crypto.Seed(round.ID))
	for _, w := range winners {
		err := d.lotteryWinnerRepo.Create(ctx, &entity.LotteryWinner{
			RoundID:     round.ID,
			UserID:      w.UserID,
			Rank:        w.Rank,
			PrizePoints: w.PrizePoints,
		})
		if err != nil {
			return err
		}

		reason := fmt.Sprintf("Prize of lottery round %d", round.RoundNumber)
		err = d.pointLedgerRepo.Credit(ctx, w.UserID, int64(w.PrizePoints), reason, round.ID)
		if err != nil {
			return err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	result := "ok"
	if len(winners) == 0 {
		result = "empty"
	}
	common.PromCounters[common.LotteryRoundsSettledTotal].WithLabelValues(result).Inc()

	xcontext.Logger(ctx).Infof(
		"Settled lottery round %d with %d winners", round.RoundNumber, len(winners))

	return nil
}

// openRound creates the next round back to back with the previous one. Cycles
// fully missed while the process was down are backfilled as completed empty
// rounds so round numbers stay contiguous with the schedule.
func (d *lotterySchedulerDomain) openRound(ctx context.Context, now time.Time) error {
	cfg := xcontext.Configs(ctx).Lottery

	opensAt := now
	roundNumber := int64(1)

	last, err := d.lotteryRoundRepo.GetLast(ctx)
	if err == nil {
		opensAt = last.AnnounceEndsAt
		roundNumber = last.RoundNumber + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	for now.Sub(opensAt) >= cfg.CycleDuration {
		err := d.lotteryRoundRepo.Create(ctx, &entity.LotteryRound{
			Base:             entity.Base{ID: uuid.NewString()},
			RoundNumber:      roundNumber,
			EntryOpensAt:     opensAt,
			EntryClosesAt:    opensAt.Add(cfg.EntryDuration),
			AnnounceEndsAt:   opensAt.Add(cfg.CycleDuration),
			TotalPrizePoints: cfg.TotalPrizePoints,
			WinnerCount:      cfg.WinnerCount,
			Status:           entity.RoundCompleted,
		})
		if err != nil {
			// The round number is unique, a conflict means another worker
			// is already backfilling.
			if repository.IsDuplicateKeyError(err) {
				return nil
			}

			return err
		}

		xcontext.Logger(ctx).Warnf("Backfilled missed lottery round %d", roundNumber)

		opensAt = opensAt.Add(cfg.CycleDuration)
		roundNumber++
	}

	err = d.lotteryRoundRepo.Create(ctx, &entity.LotteryRound{
		Base:             entity.Base{ID: uuid.NewString()},
		RoundNumber:      roundNumber,
		EntryOpensAt:     opensAt,
		EntryClosesAt:    opensAt.Add(cfg.EntryDuration),
		AnnounceEndsAt:   opensAt.Add(cfg.CycleDuration),
		TotalPrizePoints: cfg.TotalPrizePoints,
		WinnerCount:      cfg.WinnerCount,
		Status:           entity.RoundEntry,
	})
	if err != nil {
		// Another worker may have opened the round first.
		if repository.IsDuplicateKeyError(err) {
			return nil
		}

		return err
	}

	xcontext.Logger(ctx).Infof("Opened lottery round %d", roundNumber)
	return nil
}
