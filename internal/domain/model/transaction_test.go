package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umojafin/lms/internal/domain/model"
)

func testTransaction() model.Transaction {
	date := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return model.NewTransaction(
		"org-1", "loan-1", decimal.NewFromInt(560), date, "MOBILE_MONEY",
		decimal.NewFromInt(500), decimal.NewFromInt(60), decimal.Zero,
		[]model.AllocationLine{
			{InstallmentNumber: 3, Principal: decimal.NewFromInt(500), Interest: decimal.NewFromInt(60)},
		},
		"https://files.example/proof.jpg", "field agent deposit", date,
	)
}

func TestNewTransaction(t *testing.T) {
	tx := testTransaction()

	assert.NotEmpty(t, tx.ID)
	assert.True(t, tx.Active)
	assert.Empty(t, tx.ReversalOf)
	// Primary installment is the first line that received funds.
	assert.Equal(t, 3, tx.InstallmentNumber)
}

func TestTransaction_Reverse(t *testing.T) {
	tx := testTransaction()
	now := tx.Date.AddDate(0, 0, 2)

	reversal, err := tx.Reverse("teller error", now)
	require.NoError(t, err)

	assert.NotEqual(t, tx.ID, reversal.ID)
	assert.Equal(t, tx.ID, reversal.ReversalOf)
	assert.Equal(t, "teller error", reversal.ReversalReason)
	assert.False(t, reversal.Active)
	assert.True(t, decimal.NewFromInt(-560).Equal(reversal.Amount))
	assert.True(t, decimal.NewFromInt(-500).Equal(reversal.PrincipalPaid))
	assert.True(t, decimal.NewFromInt(-60).Equal(reversal.InterestPaid))
}

func TestTransaction_Reverse_Validation(t *testing.T) {
	tx := testTransaction()

	t.Run("requires a reason", func(t *testing.T) {
		_, err := tx.Reverse("", time.Now())
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("rejects an already reversed entry", func(t *testing.T) {
		inactive := tx.Deactivated("teller error")
		_, err := inactive.Reverse("again", time.Now())
		require.ErrorIs(t, err, model.ErrAlreadyReversed)
	})
}

func TestTransaction_MatchesDuplicate(t *testing.T) {
	tx := testTransaction()
	tolerance := decimal.NewFromFloat(0.05)
	window := 24 * time.Hour

	t.Run("same amount shortly after is a duplicate", func(t *testing.T) {
		assert.True(t, tx.MatchesDuplicate(decimal.NewFromInt(560), tx.Date.Add(2*time.Hour), tolerance, window))
	})

	t.Run("amount within five percent is a duplicate", func(t *testing.T) {
		assert.True(t, tx.MatchesDuplicate(decimal.NewFromInt(580), tx.Date.Add(time.Hour), tolerance, window))
	})

	t.Run("amount outside the band is not", func(t *testing.T) {
		assert.False(t, tx.MatchesDuplicate(decimal.NewFromInt(700), tx.Date.Add(time.Hour), tolerance, window))
	})

	t.Run("outside the time window is not", func(t *testing.T) {
		assert.False(t, tx.MatchesDuplicate(decimal.NewFromInt(560), tx.Date.Add(25*time.Hour), tolerance, window))
	})

	t.Run("earlier payment inside the window matches", func(t *testing.T) {
		assert.True(t, tx.MatchesDuplicate(decimal.NewFromInt(560), tx.Date.Add(-3*time.Hour), tolerance, window))
	})

	t.Run("inactive entries never match", func(t *testing.T) {
		inactive := tx.Deactivated("reversed")
		assert.False(t, inactive.MatchesDuplicate(decimal.NewFromInt(560), tx.Date, tolerance, window))
	})
}
