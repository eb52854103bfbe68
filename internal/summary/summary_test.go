package summary

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesboard-dev/salesboard/internal/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(dec(s))
}

func sell(amount, reward string) model.Transaction {
	return model.Transaction{
		Type:         model.TransactionTypeSellOrder,
		Status:       model.StatusSuccess,
		Amount:       dec(amount),
		RewardAmount: nd(reward),
	}
}

func assertSummary(t *testing.T, s model.Summary, wallet, sales, rebates, topUps string) {
	t.Helper()
	assert.True(t, s.Wallet.Equal(dec(wallet)), "wallet = %s, want %s", s.Wallet, wallet)
	assert.True(t, s.Sales.Equal(dec(sales)), "sales = %s, want %s", s.Sales, sales)
	assert.True(t, s.Rebates.Equal(dec(rebates)), "rebates = %s, want %s", s.Rebates, rebates)
	assert.True(t, s.TopUps.Equal(dec(topUps)), "topUps = %s, want %s", s.TopUps, topUps)
}

func TestCompute_Scenario(t *testing.T) {
	first := sell("80", "5")
	first.RunningBalance = nd("500")
	txns := []model.Transaction{first, sell("150", "10")}

	s, err := Compute(txns, DefaultPolicy())
	require.NoError(t, err)
	assertSummary(t, s, "500", "230", "15", "2")
}

func TestCompute_Empty(t *testing.T) {
	_, err := Compute(nil, DefaultPolicy())
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = Compute([]model.Transaction{}, DefaultPolicy())
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCompute_NothingQualifies(t *testing.T) {
	buy := model.Transaction{
		Type:           model.TransactionTypeBuyOrder,
		Status:         model.StatusSuccess,
		Amount:         dec("50"),
		RewardAmount:   nd("1"),
		RunningBalance: nd("1234.56"),
	}
	pending := sell("20", "2")
	pending.Status = model.StatusPending
	expired := sell("30", "3")
	expired.Status = model.StatusExpired

	s, err := Compute([]model.Transaction{buy, pending, expired}, DefaultPolicy())
	require.NoError(t, err)
	assertSummary(t, s, "1234.56", "0", "0", "0")
}

func TestCompute_WalletFromFirstOnly(t *testing.T) {
	first := sell("10", "0")
	second := sell("10", "0")
	second.RunningBalance = nd("999")

	s, err := Compute([]model.Transaction{first, second}, DefaultPolicy())
	require.NoError(t, err)
	// The first record has no running balance.
	assert.True(t, s.Wallet.IsZero())
}

func TestCompute_NullRewardCountsAsZero(t *testing.T) {
	t1 := sell("120", "4")
	t2 := sell("130", "0")
	t2.RewardAmount = decimal.NullDecimal{}

	s, err := Compute([]model.Transaction{t1, t2}, DefaultPolicy())
	require.NoError(t, err)
	assertSummary(t, s, "0", "250", "4", "0")
}

func TestCompute_ThresholdIsStrict(t *testing.T) {
	txns := []model.Transaction{sell("99.99", "0"), sell("100", "0"), sell("100.01", "0")}

	s, err := Compute(txns, DefaultPolicy())
	require.NoError(t, err)
	assert.True(t, s.TopUps.Equal(dec("2")), "only 99.99 is under the threshold")
}

func TestCompute_NoFloatDrift(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, sell("0.1", "0.01"))
	}

	s, err := Compute(txns, DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, "1", s.Sales.String())
	assert.Equal(t, "0.1", s.Rebates.String())
}

func TestCompute_CustomPolicy(t *testing.T) {
	p := Policy{
		SellType:        "sell",
		SuccessStatus:   "delivered",
		TopUpThreshold:  dec("50"),
		TopUpMultiplier: 3,
	}
	t1 := model.Transaction{Type: "sell", Status: "delivered", Amount: dec("40")}
	t2 := model.Transaction{Type: "sell", Status: "delivered", Amount: dec("60")}
	t3 := sell("10", "1")

	s, err := Compute([]model.Transaction{t1, t2, t3}, p)
	require.NoError(t, err)
	assertSummary(t, s, "0", "100", "0", "3")
}

func TestEvaluate(t *testing.T) {
	r := Evaluate(nil, DefaultPolicy())
	assert.True(t, r.Empty)
	assert.Zero(t, r.Count)

	first := sell("80", "5")
	first.RunningBalance = nd("500")
	r = Evaluate([]model.Transaction{first, sell("150", "10")}, DefaultPolicy())
	assert.False(t, r.Empty)
	assert.Equal(t, 2, r.Count)
	assertSummary(t, r.Summary, "500", "230", "15", "2")
}
