package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesledger/internal/domain"
	"salesledger/internal/report"
)

func sale(id int64, product string, qty int, price, pct string, m domain.PaymentMethod, date string) domain.Sale {
	p := decimal.RequireFromString(price)
	c := decimal.RequireFromString(pct)
	return domain.Sale{
		ID: id, ProductName: product, Quantity: qty, UnitPrice: p, CommissionPercent: c,
		AmountReceivable: domain.AmountReceivable(qty, p, c),
		PaymentMethod:    m, Installments: 1, SaleDate: date,
	}
}

func date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixture() []domain.Sale {
	return []domain.Sale{
		sale(1, "Chair", 3, "100.00", "10", domain.PaymentPix, "2024-01-05"),
		sale(2, "Lamp", 1, "49.90", "5", domain.PaymentCard, "2024-01-10"),
		sale(3, "Chair", 2, "95.50", "12.5", domain.PaymentCard, "2024-02-01"),
		sale(4, "Table", 1, "350.00", "8", domain.PaymentPix, "2024-02-15"),
	}
}

func TestApply_NoFilterKeepsEverything(t *testing.T) {
	got, err := report.Apply(fixture(), report.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestApply_ComposesWithAnd(t *testing.T) {
	f := report.Filter{
		ProductNames:   []string{"Chair"},
		PaymentMethods: []domain.PaymentMethod{domain.PaymentCard},
	}
	got, err := report.Apply(fixture(), f)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].ID)
}

func TestApply_DateRangeIsInclusive(t *testing.T) {
	r, err := report.NewDateRange(date("2024-01-05"), date("2024-02-01"))
	require.NoError(t, err)

	got, err := report.Apply(fixture(), report.Filter{Range: r})
	require.NoError(t, err)
	ids := []int64{}
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
}

func TestApply_SingleDayRange(t *testing.T) {
	r, err := report.NewDateRange(date("2024-02-15"), date("2024-02-15"))
	require.NoError(t, err)
	got, err := report.Apply(fixture(), report.Filter{Range: r})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Table", got[0].ProductName)
}

func TestApply_IsIdempotent(t *testing.T) {
	r, _ := report.NewDateRange(date("2024-01-01"), date("2024-01-31"))
	filters := []report.Filter{
		{},
		{ProductNames: []string{"Chair", "Lamp"}},
		{PaymentMethods: []domain.PaymentMethod{domain.PaymentPix}},
		{Range: r},
		{ProductNames: []string{"Chair"}, Range: r},
	}
	for _, f := range filters {
		once, err := report.Apply(fixture(), f)
		require.NoError(t, err)
		twice, err := report.Apply(once, f)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNewDateRange_RejectsReversedBounds(t *testing.T) {
	_, err := report.NewDateRange(date("2024-03-01"), date("2024-02-01"))
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestApply_RejectsUnknownPaymentMethod(t *testing.T) {
	_, err := report.Apply(fixture(), report.Filter{PaymentMethods: []domain.PaymentMethod{"BOLETO"}})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestSummarize_Empty(t *testing.T) {
	got := report.Summarize(nil)
	assert.Equal(t, 0, got.Units)
	assert.True(t, got.Gross.IsZero())
	assert.True(t, got.Receivable.IsZero())
}

func TestSummarize_ChairScenario(t *testing.T) {
	s := sale(1, "Chair", 3, "100.00", "10", domain.PaymentPix, "2024-01-05")
	require.True(t, s.AmountReceivable.Equal(decimal.NewFromInt(30)))

	got := report.Summarize([]domain.Sale{s})
	assert.Equal(t, 3, got.Units)
	assert.True(t, got.Gross.Equal(decimal.NewFromInt(300)), got.Gross.String())
	assert.True(t, got.Receivable.Equal(decimal.NewFromInt(30)), got.Receivable.String())
}

func TestSummarize_UsesStoredReceivable(t *testing.T) {
	s := sale(1, "Chair", 1, "10", "10", domain.PaymentPix, "2024-01-05")
	s.AmountReceivable = decimal.RequireFromString("7.77")

	got := report.Summarize([]domain.Sale{s})
	assert.Equal(t, "7.77", got.Receivable.String())
}

func TestGroupByProduct_SortedByName(t *testing.T) {
	got := report.GroupByProduct(fixture())
	assert.Equal(t, []report.ProductUnits{
		{ProductName: "Chair", Units: 5},
		{ProductName: "Lamp", Units: 1},
		{ProductName: "Table", Units: 1},
	}, got)
}

func TestBuild(t *testing.T) {
	rep, err := report.Build(fixture(), report.Filter{PaymentMethods: []domain.PaymentMethod{domain.PaymentPix}})
	require.NoError(t, err)
	assert.Len(t, rep.Rows, 2)
	assert.Equal(t, 4, rep.Totals.Units)
	assert.Equal(t, "650", rep.Totals.Gross.String())
	assert.Equal(t, "58", rep.Totals.Receivable.String())
	assert.Equal(t, 3, rep.MaxUnits())
}
