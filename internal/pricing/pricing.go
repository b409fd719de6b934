// Package pricing computes marketplace fee quotes and suggested prices
// for the Brazilian marketplaces the dashboard supports.
package pricing

import (
	"fmt"
	"math"
)

// FeeModel is a marketplace's commission: a percentage of the sale
// price plus a fixed per-item charge in BRL.
type FeeModel struct {
	Percent float64 `json:"percent"`
	Fixed   float64 `json:"fixed"`
}

var feeModels = map[string]FeeModel{
	"shopee":        {Percent: 0.14, Fixed: 4.0},
	"mercado_livre": {Percent: 0.13, Fixed: 6.0},
}

// Quote is the economics of selling one unit at a given price.
type Quote struct {
	Marketplace string  `json:"marketplace"`
	Price       float64 `json:"price"`
	Cost        float64 `json:"cost"`
	Fee         float64 `json:"fee"`
	Net         float64 `json:"net"`
	Profit      float64 `json:"profit"`
	Margin      float64 `json:"margin"`
}

// Suggestion is the minimum price that still yields the target margin
// after marketplace fees.
type Suggestion struct {
	Marketplace    string  `json:"marketplace"`
	Cost           float64 `json:"cost"`
	TargetMargin   float64 `json:"target_margin"`
	SuggestedPrice float64 `json:"suggested_price"`
	Fee            float64 `json:"fee"`
	Profit         float64 `json:"profit"`
}

// Model returns the fee model for a marketplace.
func Model(marketplace string) (FeeModel, error) {
	m, ok := feeModels[marketplace]
	if !ok {
		return FeeModel{}, fmt.Errorf("unknown marketplace: %s", marketplace)
	}
	return m, nil
}

// QuotePrice computes fee, net and profit for selling at `price` a unit
// that costs `cost`.
func QuotePrice(marketplace string, price, cost float64) (*Quote, error) {
	if price <= 0 {
		return nil, fmt.Errorf("price must be positive")
	}
	m, err := Model(marketplace)
	if err != nil {
		return nil, err
	}

	fee := round2(price*m.Percent + m.Fixed)
	net := round2(price - fee)
	profit := round2(net - cost)

	q := &Quote{
		Marketplace: marketplace,
		Price:       price,
		Cost:        cost,
		Fee:         fee,
		Net:         net,
		Profit:      profit,
	}
	if price > 0 {
		q.Margin = round4(profit / price)
	}
	return q, nil
}

// SuggestPrice solves for the price where profit/price equals the
// target margin:
//
//	price - (price*percent + fixed) - cost = margin * price
//	price = (cost + fixed) / (1 - percent - margin)
func SuggestPrice(marketplace string, cost, targetMargin float64) (*Suggestion, error) {
	if cost < 0 {
		return nil, fmt.Errorf("cost must not be negative")
	}
	if targetMargin < 0 || targetMargin >= 1 {
		return nil, fmt.Errorf("target margin must be in [0, 1)")
	}
	m, err := Model(marketplace)
	if err != nil {
		return nil, err
	}

	denom := 1 - m.Percent - targetMargin
	if denom <= 0 {
		return nil, fmt.Errorf("target margin %.2f is not achievable on %s", targetMargin, marketplace)
	}

	price := round2((cost + m.Fixed) / denom)
	fee := round2(price*m.Percent + m.Fixed)

	return &Suggestion{
		Marketplace:    marketplace,
		Cost:           cost,
		TargetMargin:   targetMargin,
		SuggestedPrice: price,
		Fee:            fee,
		Profit:         round2(price - fee - cost),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
