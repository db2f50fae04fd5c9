package repository

import (
	"testing"

	"github.com/minsuRob/sportcomm-lottery/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_pointLedgerRepository_CreditAndBalance(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	pointLedgerRepo := NewPointLedgerRepository()

	// An unknown user has an implicit zero balance.
	balance, err := pointLedgerRepo.GetBalance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, balance)

	require.NoError(t, pointLedgerRepo.Credit(ctx, testutil.User1.ID, 100, "reward", "round-1"))
	require.NoError(t, pointLedgerRepo.Credit(ctx, testutil.User1.ID, 250, "reward", "round-2"))

	balance, err = pointLedgerRepo.GetBalance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.EqualValues(t, 350, balance)

	txs, err := pointLedgerRepo.GetTransactionsByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	for _, tx := range txs {
		require.Equal(t, testutil.User1.ID, tx.UserID)
		require.Equal(t, "reward", tx.Reason)
		require.True(t, tx.RoundID.Valid)
	}

	// Another user's ledger is untouched.
	balance, err = pointLedgerRepo.GetBalance(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, balance)
}

func Test_pointLedgerRepository_CreditWithoutRound(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	pointLedgerRepo := NewPointLedgerRepository()
	require.NoError(t, pointLedgerRepo.Credit(ctx, testutil.User1.ID, 42, "signup bonus", ""))

	txs, err := pointLedgerRepo.GetTransactionsByUserID(ctx, testutil.User1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.False(t, txs[0].RoundID.Valid)
}
