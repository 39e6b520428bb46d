package models

// PriceBreakdown is the structured result of the pricing calculation for
// one order. It is never persisted; the handover document renders it.
type PriceBreakdown struct {
	GoodsValue      float64 `json:"goods_value"`
	SofaCount       int     `json:"sofa_count"`
	PriceWithSofa   float64 `json:"price_with_sofa"`
	PercentageValue float64 `json:"percentage_value"`
	MontagePrice    float64 `json:"montage_price"`
	Km              float64 `json:"km"`
	Zona            float64 `json:"zona"`
	TotalPrice      float64 `json:"total_price"`
}
