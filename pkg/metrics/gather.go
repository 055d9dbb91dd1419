package metrics

import (
	"fmt"
)

// Value sums the samples of the named metric family in the global registry
// whose labels include every pair in match. Counters, gauges and histogram
// sample counts are supported.
func Value(name string, match map[string]string) (float64, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrGather, err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			if !labelsMatch(m.GetLabel(), match) {
				continue
			}
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		return total, nil
	}
	return 0, fmt.Errorf("%w: metric %q not registered", ErrGather, name)
}

type labelPair interface {
	GetName() string
	GetValue() string
}

func labelsMatch[L labelPair](labels []L, match map[string]string) bool {
	found := 0
	for _, l := range labels {
		if want, ok := match[l.GetName()]; ok {
			if l.GetValue() != want {
				return false
			}
			found++
		}
	}
	return found == len(match)
}
