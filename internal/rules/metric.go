// Package rules derives association rules from frequent itemsets and
// filters and summarizes them.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/basket/internal/model"
)

// ErrUnknownMetric is returned for metric names that are not supported.
var ErrUnknownMetric = errors.New("unknown rule metric")

// Metric selects which rule measure a threshold applies to.
type Metric string

// Supported metrics.
const (
	MetricSupport    Metric = "support"
	MetricConfidence Metric = "confidence"
	MetricLift       Metric = "lift"
	MetricLeverage   Metric = "leverage"
	MetricConviction Metric = "conviction"
)

// Metrics lists every supported metric.
func Metrics() []Metric {
	return []Metric{MetricSupport, MetricConfidence, MetricLift, MetricLeverage, MetricConviction}
}

// ParseMetric converts a configured name into a Metric.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Metrics() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
}

// Value returns the rule's measure for m.
func (m Metric) Value(r model.Rule) float64 {
	switch m {
	case MetricSupport:
		return r.Support
	case MetricConfidence:
		return r.Confidence
	case MetricLeverage:
		return r.Leverage
	case MetricConviction:
		return r.Conviction
	default:
		return r.Lift
	}
}

func (m Metric) String() string {
	return string(m)
}
