package services

import (
	"testing"

	"montago/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fprice(v float64) *float64 {
	return &v
}

func testConfig() PricingConfig {
	return PricingConfig{
		MinimalMontagePrice: DefaultMinimalMontagePrice,
		MarkupRate:          DefaultMarkupRate,
		SofaUnitPrice:       DefaultSofaUnitPrice,
	}
}

func TestComputePriceGoodsOnly(t *testing.T) {
	cfg := testConfig()

	// order 12345-R: two priced cabinets, one priced shelf, zone 1
	articles := []models.Article{
		{Name: "Wardrobe", Price: fprice(1000), Quantity: 2},
		{Name: "Shelf", Price: fprice(500), Quantity: 1},
	}

	got := cfg.ComputePrice(articles, 0, 313)

	assert.Equal(t, 2500.0, got.GoodsValue)
	assert.Equal(t, 0, got.SofaCount)
	assert.Equal(t, 0.0, got.PriceWithSofa)
	assert.InDelta(t, 300.0, got.PercentageValue, 1e-9)
	assert.Equal(t, 454.0, got.MontagePrice, "markup on goods is below the floor")
	assert.Equal(t, 767.0, got.TotalPrice)
}

func TestComputePriceSofasOnly(t *testing.T) {
	cfg := testConfig()

	// three unpriced sofas, zone 2
	articles := []models.Article{
		{Name: "Sofa", Quantity: 3, IsSofa: true},
	}

	got := cfg.ComputePrice(articles, 30, 379)

	assert.Equal(t, 0.0, got.GoodsValue)
	assert.Equal(t, 3, got.SofaCount)
	assert.Equal(t, 1485.0, got.PriceWithSofa)
	assert.Equal(t, 1485.0, got.MontagePrice)
	assert.Equal(t, 1864.0, got.TotalPrice)
}

func TestComputePriceEmptyOrderBilledAtMinimum(t *testing.T) {
	cfg := testConfig()

	got := cfg.ComputePrice(nil, 0, 0)

	require.Equal(t, cfg.MinimalMontagePrice, got.MontagePrice)
	require.Equal(t, cfg.MinimalMontagePrice, got.TotalPrice)
}

func TestComputePriceNullPricedArticlesContributeZero(t *testing.T) {
	cfg := testConfig()

	articles := []models.Article{
		{Name: "Chair", Quantity: 4},                       // no price
		{Name: "Table", Price: fprice(0), Quantity: 2},     // zero price
		{Name: "Desk", Price: fprice(1200), Quantity: 0},   // zero quantity
		{Name: "Corner sofa", Quantity: 1, IsSofa: true},   // sofa, no price
	}

	got := cfg.ComputePrice(articles, 0, 0)

	assert.Equal(t, 0.0, got.GoodsValue)
	assert.Equal(t, 1, got.SofaCount)
	assert.Equal(t, cfg.SofaUnitPrice, got.PriceWithSofa)
}

func TestComputePriceSofasExcludedFromGoodsValue(t *testing.T) {
	cfg := testConfig()

	articles := []models.Article{
		{Name: "Sofa", Price: fprice(3000), Quantity: 2, IsSofa: true},
		{Name: "Bed", Price: fprice(2000), Quantity: 1},
	}

	got := cfg.ComputePrice(articles, 0, 0)

	assert.Equal(t, 2000.0, got.GoodsValue, "priced sofas must not count as goods")
	assert.Equal(t, 2, got.SofaCount)
}

func TestComputePriceMonotonicInGoodsAndSofas(t *testing.T) {
	cfg := testConfig()

	prev := 0.0
	for goods := 0.0; goods <= 20000; goods += 2500 {
		got := cfg.ComputePrice([]models.Article{
			{Name: "Cabinet", Price: fprice(goods), Quantity: 1},
		}, 0, 0)
		require.GreaterOrEqual(t, got.MontagePrice, prev)
		require.GreaterOrEqual(t, got.MontagePrice, cfg.MinimalMontagePrice)
		prev = got.MontagePrice
	}

	prev = 0.0
	for sofas := 0; sofas <= 8; sofas++ {
		got := cfg.ComputePrice([]models.Article{
			{Name: "Sofa", Quantity: sofas, IsSofa: true},
		}, 0, 0)
		require.GreaterOrEqual(t, got.MontagePrice, prev)
		prev = got.MontagePrice
	}
}

func TestComputePriceTotalAddsZona(t *testing.T) {
	cfg := testConfig()

	articles := []models.Article{
		{Name: "Wardrobe", Price: fprice(8000), Quantity: 1},
	}
	for _, zona := range []float64{0, 313, 379, 1250.50} {
		got := cfg.ComputePrice(articles, 10, zona)
		require.Equal(t, got.MontagePrice+zona, got.TotalPrice)
	}
}

func TestComputePriceIsPure(t *testing.T) {
	cfg := testConfig()

	articles := []models.Article{
		{Name: "Wardrobe", Price: fprice(1000), Quantity: 2},
		{Name: "Sofa", Quantity: 1, IsSofa: true},
	}

	first := cfg.ComputePrice(articles, 5, 313)
	second := cfg.ComputePrice(articles, 5, 313)
	assert.Equal(t, first, second)
}
