package domain

import (
	"context"
	"errors"
	"math"
)

// SummaryRequest parameterizes the aggregator.
type SummaryRequest struct {
	Window Window
	ShopID string
}

// CompareRequest asks for the current window against the preceding one.
type CompareRequest struct {
	Current  Window
	Previous Window
	ShopID   string
}

// Service is the read-only financial aggregator.
type Service interface {
	Summary(ctx context.Context, req SummaryRequest) (Summary, error)
	Compare(ctx context.Context, req CompareRequest) (Comparison, error)
}

var (
	ErrInvalidWindow = errors.New("invalid_window")
	ErrInvalidShop   = errors.New("invalid_shop")
)

// PercentChange computes the period-over-period movement. A zero previous
// value reports a flat 100% in the direction of the current value.
func PercentChange(previous, current int64) Change {
	if previous == 0 {
		switch {
		case current > 0:
			return Change{Percent: 100, Direction: "increase"}
		case current < 0:
			return Change{Percent: 100, Direction: "decrease"}
		default:
			return Change{Percent: 0, Direction: "unchanged"}
		}
	}

	delta := float64(current-previous) / math.Abs(float64(previous)) * 100
	switch {
	case delta > 0:
		return Change{Percent: delta, Direction: "increase"}
	case delta < 0:
		return Change{Percent: -delta, Direction: "decrease"}
	default:
		return Change{Percent: 0, Direction: "unchanged"}
	}
}
