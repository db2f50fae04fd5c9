package domain

import (
	"testing"
	"time"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/internal/repository"
	"github.com/minsuRob/sportcomm-lottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestScheduler() *lotterySchedulerDomain {
	return NewLotterySchedulerDomain(
		repository.NewLotteryRoundRepository(),
		repository.NewLotteryEntryRepository(),
		repository.NewLotteryWinnerRepository(),
		repository.NewPointLedgerRepository(),
		&testutil.MockRedisClient{},
	)
}

func Test_lotterySchedulerDomain_openFirstRound(t *testing.T) {
	ctx := testutil.MockContext()
	schedulerDomain := newTestScheduler()

	t0 := time.Now()
	require.NoError(t, schedulerDomain.Tick(ctx, t0))

	roundRepo := repository.NewLotteryRoundRepository()
	round, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, round.RoundNumber)
	require.Equal(t, entity.RoundEntry, round.Status)
	require.Equal(t, t0.Add(50*time.Minute).Unix(), round.EntryClosesAt.Unix())
	require.Equal(t, t0.Add(time.Hour).Unix(), round.AnnounceEndsAt.Unix())
	require.EqualValues(t, 1000, round.TotalPrizePoints)
	require.Equal(t, 10, round.WinnerCount)

	// Ticking again inside the entry window changes nothing.
	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(time.Minute)))
	again, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.Equal(t, round.ID, again.ID)
}

func Test_lotterySchedulerDomain_settleRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	schedulerDomain := newTestScheduler()

	roundRepo := repository.NewLotteryRoundRepository()
	entryRepo := repository.NewLotteryEntryRepository()
	winnerRepo := repository.NewLotteryWinnerRepository()
	pointLedgerRepo := repository.NewPointLedgerRepository()

	t0 := time.Now()
	require.NoError(t, schedulerDomain.Tick(ctx, t0))

	round, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)

	for _, user := range []entity.User{testutil.User1, testutil.User2, testutil.User3} {
		err := entryRepo.Create(ctx, &entity.LotteryEntry{
			RoundID:   round.ID,
			UserID:    user.ID,
			CreatedAt: t0.Add(time.Minute),
		})
		require.NoError(t, err)
	}

	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))

	settled, err := roundRepo.GetByID(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoundAnnounce, settled.Status)

	winners, err := winnerRepo.GetByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, winners, 3)

	var total uint64
	for i, w := range winners {
		require.Equal(t, i+1, w.Rank)
		total += w.PrizePoints

		balance, err := pointLedgerRepo.GetBalance(ctx, w.UserID)
		require.NoError(t, err)
		require.EqualValues(t, w.PrizePoints, balance)
	}
	require.EqualValues(t, 1000, total)

	// A second tick at the same instant must not settle twice.
	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))
	winners, err = winnerRepo.GetByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, winners, 3)

	balance, err := pointLedgerRepo.GetBalance(ctx, winners[0].UserID)
	require.NoError(t, err)
	require.EqualValues(t, winners[0].PrizePoints, balance)
}

func Test_lotterySchedulerDomain_settleIsIdempotentAcrossWorkers(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	roundRepo := repository.NewLotteryRoundRepository()
	entryRepo := repository.NewLotteryEntryRepository()
	winnerRepo := repository.NewLotteryWinnerRepository()

	firstWorker := newTestScheduler()
	secondWorker := newTestScheduler()

	t0 := time.Now()
	require.NoError(t, firstWorker.Tick(ctx, t0))

	round, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.NoError(t, entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: t0,
	}))

	// Both workers observe the entry deadline. The conditional status
	// transition lets only one of them write winners.
	require.NoError(t, firstWorker.Tick(ctx, t0.Add(50*time.Minute)))
	require.NoError(t, secondWorker.Tick(ctx, t0.Add(50*time.Minute)))

	winners, err := winnerRepo.GetByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, winners, 1)
}

func Test_lotterySchedulerDomain_completeAndOpenNextRound(t *testing.T) {
	ctx := testutil.MockContext()
	schedulerDomain := newTestScheduler()

	roundRepo := repository.NewLotteryRoundRepository()

	t0 := time.Now()
	require.NoError(t, schedulerDomain.Tick(ctx, t0))
	first, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)

	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(time.Hour)))

	completed, err := roundRepo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoundCompleted, completed.Status)

	second, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, second.RoundNumber)
	require.Equal(t, entity.RoundEntry, second.Status)

	// The next round starts exactly where the previous one ended.
	require.Equal(t, first.AnnounceEndsAt.Unix(), second.EntryOpensAt.Unix())
}

func Test_lotterySchedulerDomain_backfillAfterDowntime(t *testing.T) {
	ctx := testutil.MockContext()
	schedulerDomain := newTestScheduler()

	roundRepo := repository.NewLotteryRoundRepository()

	t0 := time.Now()
	require.NoError(t, schedulerDomain.Tick(ctx, t0))

	// The process comes back four and a half hours later. The stale round
	// settles empty, fully missed cycles backfill as completed rounds, and
	// the current cycle opens for entries.
	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(270*time.Minute)))

	current, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 5, current.RoundNumber)
	require.Equal(t, entity.RoundEntry, current.Status)
	require.Equal(t, t0.Add(240*time.Minute).Unix(), current.EntryOpensAt.Unix())

	history, err := roundRepo.GetEndedList(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, history, 4)

	// Round numbers stay gap free and boundaries stay contiguous.
	var previous *entity.LotteryRound
	for i := len(history) - 1; i >= 0; i-- {
		round := history[i]
		require.Equal(t, entity.RoundCompleted, round.Status)
		if previous != nil {
			require.Equal(t, previous.RoundNumber+1, round.RoundNumber)
			require.Equal(t, previous.AnnounceEndsAt.Unix(), round.EntryOpensAt.Unix())
		}

		previous = &history[i]
	}
}

func Test_lotterySchedulerDomain_settleWithoutEntrants(t *testing.T) {
	ctx := testutil.MockContext()
	schedulerDomain := newTestScheduler()

	roundRepo := repository.NewLotteryRoundRepository()
	winnerRepo := repository.NewLotteryWinnerRepository()

	t0 := time.Now()
	require.NoError(t, schedulerDomain.Tick(ctx, t0))
	round, err := roundRepo.GetCurrent(ctx)
	require.NoError(t, err)

	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))

	settled, err := roundRepo.GetByID(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoundAnnounce, settled.Status)

	count, err := winnerRepo.CountByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}
