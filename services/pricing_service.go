package services

import (
	"os"
	"strconv"

	"montago/models"
)

// Default pricing constants. Every job is billed at least the minimal
// montage price regardless of computed value.
const (
	DefaultMinimalMontagePrice = 454.0
	DefaultMarkupRate          = 0.12
	DefaultSofaUnitPrice       = 495.0
)

// PricingConfig carries the three configuration constants of the
// montage price formula.
type PricingConfig struct {
	MinimalMontagePrice float64
	MarkupRate          float64
	SofaUnitPrice       float64
}

// LoadPricingConfig reads the pricing constants from the environment,
// falling back to the defaults.
func LoadPricingConfig() PricingConfig {
	return PricingConfig{
		MinimalMontagePrice: envFloat("PRICE_MINIMAL_MONTAGE", DefaultMinimalMontagePrice),
		MarkupRate:          envFloat("PRICE_MARKUP_RATE", DefaultMarkupRate),
		SofaUnitPrice:       envFloat("PRICE_SOFA_UNIT", DefaultSofaUnitPrice),
	}
}

func envFloat(key string, fallback float64) float64 {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

// ComputePrice turns an order's articles plus the pre-resolved transport
// charge into a structured price breakdown:
//
//	goods value   = sum of price*quantity over priced non-sofa articles
//	sofa price    = sofa quantity * sofa unit price
//	montage price = max(minimum, goods value * markup + sofa price)
//	total         = montage price + zona
//
// Pure and idempotent; degenerate inputs (zero quantity, null price)
// contribute zero rather than erroring.
func (cfg PricingConfig) ComputePrice(articles []models.Article, km, zona float64) models.PriceBreakdown {
	breakdown := models.PriceBreakdown{Km: km, Zona: zona}

	for _, a := range articles {
		if a.IsSofa {
			breakdown.SofaCount += a.Quantity
			continue
		}
		if a.Price != nil {
			breakdown.GoodsValue += *a.Price * float64(a.Quantity)
		}
	}

	breakdown.PriceWithSofa = float64(breakdown.SofaCount) * cfg.SofaUnitPrice
	breakdown.PercentageValue = breakdown.GoodsValue * cfg.MarkupRate

	breakdown.MontagePrice = breakdown.PercentageValue + breakdown.PriceWithSofa
	if breakdown.MontagePrice < cfg.MinimalMontagePrice {
		breakdown.MontagePrice = cfg.MinimalMontagePrice
	}

	breakdown.TotalPrice = breakdown.MontagePrice + zona
	return breakdown
}

// ComputeOrderPrice is a convenience wrapper over ComputePrice for a
// loaded order.
func (cfg PricingConfig) ComputeOrderPrice(order *models.Order, km, zona float64) models.PriceBreakdown {
	return cfg.ComputePrice(order.Articles, km, zona)
}
