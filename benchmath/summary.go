// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"math"
)

// A Quality classifies how tight an Aggregate's confidence interval
// is relative to its configured target RCIW. The classification is
// monotonic in the realized RCIW:
//
//	excellent   realized <= target
//	good        realized <= 2*target
//	acceptable  realized <= 4*target
//	poor        anything wider, or an undefined RCIW
type Quality int

const (
	Excellent Quality = iota
	Good
	Acceptable
	Poor
)

func (q Quality) String() string {
	switch q {
	case Excellent:
		return "excellent"
	case Good:
		return "good"
	case Acceptable:
		return "acceptable"
	case Poor:
		return "poor"
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// Multiples of the target RCIW delimiting the quality labels.
const (
	goodRCIWFactor       = 2
	acceptableRCIWFactor = 4
)

// MemStats summarizes the memory readings of an Aggregate.
type MemStats struct {
	// AllocPerOpKB is the mean memory allocated per observation.
	AllocPerOpKB float64

	// AllocRateKBPerSec is the total allocation divided by the
	// total observed time.
	AllocRateKBPerSec float64

	// PeakKB is the largest after-run resident memory reading.
	PeakKB float64

	// UncollectedKB is the final after-run reading minus the
	// baseline, i.e. memory the collector had not returned by the
	// end of the cycle.
	UncollectedKB float64

	// AvgStepKB is the mean growth from the before-run to the
	// after-run reading.
	AvgStepKB float64
}

// A Summary is a derived, read-only descriptive report of one
// Aggregate. All fields are recomputed from the Aggregate on demand;
// statistics the Aggregate cannot support are NaN.
type Summary struct {
	Name string
	N    int

	Mean, Min, Max float64
	P50, P95, P99  float64
	Stddev, Stderr float64

	// Lo and Hi bound the confidence interval mean ± z*stderr at
	// the Aggregate's configured confidence level (in percent).
	Lo, Hi     float64
	Confidence float64

	// RCIW is the realized relative confidence-interval width in
	// percent of the mean; TargetRCIW is the configured goal.
	RCIW       float64
	TargetRCIW float64
	Quality    Quality

	// Outliers counts Tukey-flagged observations. It is 0 when
	// the Aggregate is too small for detection to be meaningful.
	Outliers   int
	OutlierPct float64

	Mem MemStats
}

// Summarize computes the descriptive summary of a. It never fails:
// an empty or single-observation Aggregate simply yields NaN for the
// statistics that require more data.
func Summarize(a *Aggregate) Summary {
	s := Summary{
		Name:       a.Name(),
		N:          a.Count(),
		Mean:       a.Mean(),
		Min:        a.Min(),
		Max:        a.Max(),
		Stddev:     a.Stddev(),
		Stderr:     a.Stderr(),
		Confidence: a.Confidence(),
		TargetRCIW: a.TargetRCIW(),
	}
	s.P50, _ = a.Percentile(50)
	s.P95, _ = a.Percentile(95)
	s.P99, _ = a.Percentile(99)

	z := ZScore(a.Confidence() / 100)
	half := z * s.Stderr
	s.Lo = s.Mean - half
	s.Hi = s.Mean + half
	s.RCIW = 100 * (2 * half) / s.Mean
	s.Quality = classifyRCIW(s.RCIW, s.TargetRCIW)

	if out, err := DetectOutliers(a, Tukey); err == nil {
		s.Outliers = len(out.Indices)
		s.OutlierPct = 100 * float64(len(out.Indices)) / float64(a.Count())
	}

	s.Mem = memStats(a)
	return s
}

func classifyRCIW(realized, target float64) Quality {
	switch {
	case realized <= target:
		return Excellent
	case realized <= goodRCIWFactor*target:
		return Good
	case realized <= acceptableRCIWFactor*target:
		return Acceptable
	}
	// NaN comparisons land here too: an unmeasurable interval is
	// reported as poor rather than inventing a label.
	return Poor
}

func memStats(a *Aggregate) MemStats {
	m := MemStats{
		AllocPerOpKB:      math.NaN(),
		AllocRateKBPerSec: math.NaN(),
		PeakKB:            math.NaN(),
		UncollectedKB:     math.NaN(),
		AvgStepKB:         math.NaN(),
	}
	n := a.Count()
	if n == 0 {
		return m
	}
	obs := a.Observations()
	var allocSum, stepSum float64
	peak := math.Inf(-1)
	for _, o := range obs {
		allocSum += float64(o.AllocatedKB)
		stepSum += float64(o.AfterKB - o.BeforeKB)
		if float64(o.AfterKB) > peak {
			peak = float64(o.AfterKB)
		}
	}
	m.AllocPerOpKB = allocSum / float64(n)
	m.AvgStepKB = stepSum / float64(n)
	m.PeakKB = peak
	m.UncollectedKB = float64(obs[n-1].AfterKB - a.BaseKB())
	if a.Sum() > 0 {
		m.AllocRateKBPerSec = allocSum / (a.Sum() / 1e9)
	}
	return m
}
