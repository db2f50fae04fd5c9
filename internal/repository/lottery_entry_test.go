package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/minsuRob/sportcomm-lottery/internal/entity"
	"github.com/minsuRob/sportcomm-lottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func createTestRound(t *testing.T, ctx context.Context) *entity.LotteryRound {
	t.Helper()

	round := &entity.LotteryRound{
		Base:             entity.Base{ID: uuid.NewString()},
		RoundNumber:      1,
		EntryOpensAt:     time.Now(),
		EntryClosesAt:    time.Now().Add(50 * time.Minute),
		AnnounceEndsAt:   time.Now().Add(time.Hour),
		TotalPrizePoints: 1000,
		WinnerCount:      10,
		Status:           entity.RoundEntry,
	}
	require.NoError(t, NewLotteryRoundRepository().Create(ctx, round))
	return round
}

func Test_lotteryEntryRepository_duplicateEntry(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	round := createTestRound(t, ctx)

	entryRepo := NewLotteryEntryRepository()

	err := entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	err = entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: time.Now(),
	})
	require.Error(t, err)
	require.True(t, IsDuplicateKeyError(err))

	count, err := entryRepo.CountByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_lotteryEntryRepository_concurrentDuplicateEntries(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	round := createTestRound(t, ctx)

	entryRepo := NewLotteryEntryRepository()

	var wg sync.WaitGroup
	var mutex sync.Mutex
	accepted := 0
	rejected := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := entryRepo.Create(ctx, &entity.LotteryEntry{
				RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: time.Now(),
			})

			mutex.Lock()
			defer mutex.Unlock()
			if err == nil {
				accepted++
			} else {
				require.True(t, IsDuplicateKeyError(err))
				rejected++
			}
		}()
	}

	wg.Wait()

	require.Equal(t, 1, accepted)
	require.Equal(t, 7, rejected)

	count, err := entryRepo.CountByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func Test_lotteryEntryRepository_entrantOrder(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	round := createTestRound(t, ctx)

	entryRepo := NewLotteryEntryRepository()

	base := time.Now()
	require.NoError(t, entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User2.ID, CreatedAt: base,
	}))
	require.NoError(t, entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User3.ID, CreatedAt: base.Add(time.Second),
	}))
	require.NoError(t, entryRepo.Create(ctx, &entity.LotteryEntry{
		RoundID: round.ID, UserID: testutil.User1.ID, CreatedAt: base,
	}))

	// Ordered by submission time, user id breaking ties.
	userIDs, err := entryRepo.GetUserIDsByRoundID(ctx, round.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.User1.ID, testutil.User2.ID, testutil.User3.ID}, userIDs)
}
