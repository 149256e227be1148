package dto

import "golang.org/x/exp/constraints"

// Metric is a single named reading compared against its limit.
type Metric[T constraints.Ordered] struct {
	Name      string `json:"name"`
	Value     T      `json:"value"`
	Threshold T      `json:"threshold"`
}

// Breached reports whether Value is strictly above Threshold.
func (m Metric[T]) Breached() bool {
	return m.Value > m.Threshold
}
