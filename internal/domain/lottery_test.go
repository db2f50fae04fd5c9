package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/internal/model"
	"github.com/minsuRob/sportcomm-lottery/internal/repository"
	"github.com/minsuRob/sportcomm-lottery/pkg/errorx"
	"github.com/minsuRob/sportcomm-lottery/pkg/testutil"
	"github.com/minsuRob/sportcomm-lottery/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestLotteryDomain() *lotteryDomain {
	return NewLotteryDomain(
		repository.NewLotteryRoundRepository(),
		repository.NewLotteryEntryRepository(),
		repository.NewLotteryWinnerRepository(),
		repository.NewPointLedgerRepository(),
		repository.NewUserRepository(),
		&testutil.MockRedisClient{},
	)
}

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, code, errx.Code)
}

func Test_lotteryDomain_Enter(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	schedulerDomain := newTestScheduler()
	require.NoError(t, schedulerDomain.Tick(ctx, time.Now()))

	lotteryDomain := newTestLotteryDomain()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	resp, err := lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	require.NoError(t, err)
	require.False(t, resp.AlreadyEntered)
	require.EqualValues(t, 1, resp.RoundNumber)
	require.NotEmpty(t, resp.EnteredAt)

	// The second submission is not an error, it reports the first one back.
	again, err := lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	require.NoError(t, err)
	require.True(t, again.AlreadyEntered)
	require.Equal(t, resp.EnteredAt, again.EnteredAt)

	count, err := repository.NewLotteryEntryRepository().CountByRoundID(ctx, resp.RoundID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_lotteryDomain_Enter_noActiveRound(t *testing.T) {
	ctx := testutil.MockContextWithUserID(testutil.User1.ID)

	lotteryDomain := newTestLotteryDomain()
	_, err := lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_lotteryDomain_Enter_afterEntryWindowCloses(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	schedulerDomain := newTestScheduler()
	t0 := time.Now().Add(-50 * time.Minute)
	require.NoError(t, schedulerDomain.Tick(ctx, t0))
	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))

	lotteryDomain := newTestLotteryDomain()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	_, err := lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_lotteryDomain_Enter_notAuthenticated(t *testing.T) {
	ctx := testutil.MockContext()

	lotteryDomain := newTestLotteryDomain()
	_, err := lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	requireErrorCode(t, err, errorx.Unauthenticated)
}

func Test_lotteryDomain_GetStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	lotteryDomain := newTestLotteryDomain()

	// No round has been opened yet.
	resp, err := lotteryDomain.GetStatus(ctx, &model.GetLotteryStatusRequest{})
	require.NoError(t, err)
	require.False(t, resp.HasActiveRound)

	schedulerDomain := newTestScheduler()
	require.NoError(t, schedulerDomain.Tick(ctx, time.Now()))

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)
	_, err = lotteryDomain.Enter(ctx, &model.EnterLotteryRoundRequest{})
	require.NoError(t, err)

	resp, err = lotteryDomain.GetStatus(ctx, &model.GetLotteryStatusRequest{})
	require.NoError(t, err)
	require.True(t, resp.HasActiveRound)
	require.Equal(t, string(entity.RoundEntry), resp.Phase)
	require.True(t, resp.HasEntered)
	require.EqualValues(t, 1, resp.TotalEntries)
	require.EqualValues(t, 100, resp.PrizePerWinner)
	require.Greater(t, resp.RemainingSeconds, int64(49*60))
	require.LessOrEqual(t, resp.RemainingSeconds, int64(50*60))

	// Another user has not entered.
	otherCtx := xcontext.WithRequestUserID(ctx, testutil.User2.ID)
	resp, err = lotteryDomain.GetStatus(otherCtx, &model.GetLotteryStatusRequest{})
	require.NoError(t, err)
	require.False(t, resp.HasEntered)
}

func Test_lotteryDomain_GetWinners(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	schedulerDomain := newTestScheduler()
	lotteryDomain := newTestLotteryDomain()

	t0 := time.Now().Add(-50 * time.Minute)
	require.NoError(t, schedulerDomain.Tick(ctx, t0))

	round, err := repository.NewLotteryRoundRepository().GetCurrent(ctx)
	require.NoError(t, err)

	require.NoError(t, repository.NewLotteryEntryRepository().Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: t0,
	}))

	// Before settlement there is nothing to reveal.
	resp, err := lotteryDomain.GetWinners(ctx, &model.GetLotteryWinnersRequest{RoundID: round.ID})
	require.NoError(t, err)
	require.Empty(t, resp.Winners)

	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))

	resp, err = lotteryDomain.GetWinners(ctx, &model.GetLotteryWinnersRequest{RoundID: round.ID})
	require.NoError(t, err)
	require.Len(t, resp.Winners, 1)
	require.Equal(t, testutil.User1.ID, resp.Winners[0].UserID)
	require.Equal(t, testutil.User1.Name, resp.Winners[0].Name)
	require.Equal(t, 1, resp.Winners[0].Rank)
	require.EqualValues(t, 1000, resp.Winners[0].PrizePoints)
}

func Test_lotteryDomain_GetWinners_notFound(t *testing.T) {
	ctx := testutil.MockContext()

	lotteryDomain := newTestLotteryDomain()
	_, err := lotteryDomain.GetWinners(ctx, &model.GetLotteryWinnersRequest{RoundID: "unknown"})
	requireErrorCode(t, err, errorx.NotFound)

	_, err = lotteryDomain.GetWinners(ctx, &model.GetLotteryWinnersRequest{})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_lotteryDomain_GetRoundHistory(t *testing.T) {
	ctx := testutil.MockContext()

	schedulerDomain := newTestScheduler()
	lotteryDomain := newTestLotteryDomain()

	// Four completed rounds plus the currently open one.
	t0 := time.Now().Add(-270 * time.Minute)
	require.NoError(t, schedulerDomain.Tick(ctx, t0))
	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(270*time.Minute)))

	resp, err := lotteryDomain.GetRoundHistory(ctx, &model.GetLotteryRoundHistoryRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Rounds, 2)
	require.EqualValues(t, 4, resp.Rounds[0].Round.RoundNumber)
	require.EqualValues(t, 3, resp.Rounds[1].Round.RoundNumber)

	resp, err = lotteryDomain.GetRoundHistory(ctx,
		&model.GetLotteryRoundHistoryRequest{Offset: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, resp.Rounds, 2)
	require.EqualValues(t, 2, resp.Rounds[0].Round.RoundNumber)
	require.EqualValues(t, 1, resp.Rounds[1].Round.RoundNumber)

	_, err = lotteryDomain.GetRoundHistory(ctx, &model.GetLotteryRoundHistoryRequest{Offset: -1})
	requireErrorCode(t, err, errorx.BadRequest)

	_, err = lotteryDomain.GetRoundHistory(ctx, &model.GetLotteryRoundHistoryRequest{Limit: 51})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_lotteryDomain_GetMyEntriesAndBalance(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	schedulerDomain := newTestScheduler()
	lotteryDomain := newTestLotteryDomain()

	t0 := time.Now().Add(-50 * time.Minute)
	require.NoError(t, schedulerDomain.Tick(ctx, t0))

	round, err := repository.NewLotteryRoundRepository().GetCurrent(ctx)
	require.NoError(t, err)
	require.NoError(t, repository.NewLotteryEntryRepository().Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: t0,
	}))

	require.NoError(t, schedulerDomain.Tick(ctx, t0.Add(50*time.Minute)))

	ctx = xcontext.WithRequestUserID(ctx, testutil.User1.ID)

	entries, err := lotteryDomain.GetMyEntries(ctx, &model.GetMyLotteryEntriesRequest{})
	require.NoError(t, err)
	require.Len(t, entries.Entries, 1)
	require.Equal(t, round.ID, entries.Entries[0].RoundID)
	require.EqualValues(t, 1, entries.Entries[0].RoundNumber)

	balance, err := lotteryDomain.GetMyPointBalance(ctx, &model.GetMyPointBalanceRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 1000, balance.Points)
	require.Len(t, balance.Transactions, 1)
	require.Equal(t, round.ID, balance.Transactions[0].RoundID)
	require.EqualValues(t, 1000, balance.Transactions[0].Amount)
}

func Test_lotteryDomain_fullRound(t *testing.T) {
	ctx := testutil.MockContext()

	schedulerDomain := newTestScheduler()
	lotteryDomain := newTestLotteryDomain()

	userRepo := repository.NewUserRepository()
	pointLedgerRepo := repository.NewPointLedgerRepository()

	require.NoError(t, schedulerDomain.Tick(ctx, time.Now()))

	entrants := make([]string, 0, 37)
	for i := 0; i < 37; i++ {
		user := &entity.User{
			Base: entity.Base{ID: fmt.Sprintf("e2e-user-%d", i)},
			Name: fmt.Sprintf("e2e-user-%d", i),
		}
		require.NoError(t, userRepo.Create(ctx, user))
		entrants = append(entrants, user.ID)

		userCtx := xcontext.WithRequestUserID(ctx, user.ID)
		_, err := lotteryDomain.Enter(userCtx, &model.EnterLotteryRoundRequest{})
		require.NoError(t, err)
	}

	round, err := repository.NewLotteryRoundRepository().GetCurrent(ctx)
	require.NoError(t, err)
	require.NoError(t, schedulerDomain.Tick(ctx, round.EntryClosesAt))

	resp, err := lotteryDomain.GetWinners(ctx, &model.GetLotteryWinnersRequest{RoundID: round.ID})
	require.NoError(t, err)
	require.Len(t, resp.Winners, 10)

	seen := map[string]bool{}
	for _, w := range resp.Winners {
		require.Contains(t, entrants, w.UserID)
		require.False(t, seen[w.UserID])
		seen[w.UserID] = true

		require.EqualValues(t, 100, w.PrizePoints)

		balance, err := pointLedgerRepo.GetBalance(ctx, w.UserID)
		require.NoError(t, err)
		require.EqualValues(t, 100, balance)
	}
}
