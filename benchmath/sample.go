// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath computes statistics over sets of repeated
// benchmark measurements and compares sample sets against each other.
//
// Raw observations stream into a fixed-capacity Aggregate, which
// maintains mean and variance incrementally (Welford's algorithm).
// Summarize derives a descriptive report for one Aggregate, and
// Compare tests which of several Aggregates are statistically
// distinguishable, producing ranked groups for reporting.
//
// Mathematically undefined statistics (the variance of a single
// observation, the mean of an empty aggregate) are reported as NaN
// rather than errors so that derived quantities compose without
// branching. Misuse (bad arguments, too little data for a hypothesis
// test) is reported as an error; see errors.go.
package benchmath

import (
	"fmt"
	"math"
	"sort"
)

// Collector tuning modes for Aggregate.GCStep. A positive GCStep is a
// step threshold in kilobytes.
const (
	GCDisabled = -1
	GCFull     = 0
)

// Defaults for Config fields left zero.
const (
	DefaultConfidence = 95 // percent
	DefaultTargetRCIW = 5  // percent
)

// MaxNameLen is the longest display name an Aggregate may carry.
const MaxNameLen = 255

// An Observation is a single benchmark measurement: the elapsed time
// of one run and the resident-memory readings around it.
type Observation struct {
	TimeNS      int64 // elapsed time in nanoseconds
	BeforeKB    int64 // resident memory before the run, in KB
	AfterKB     int64 // resident memory after the run, in KB
	AllocatedKB int64 // memory allocated by the run, in KB
}

// A Config carries the optional settings of an Aggregate. The zero
// value selects the defaults: unnamed, full collection, no baseline,
// 95% confidence, 5% target relative confidence-interval width.
type Config struct {
	// Name is an optional display name, at most MaxNameLen bytes.
	Name string

	// GCStep is the collector tuning mode: GCDisabled, GCFull, or
	// a step threshold in KB.
	GCStep int

	// BaseKB is the baseline resident memory at creation, in KB.
	BaseKB int64

	// Confidence is the confidence level in percent. 0 means
	// DefaultConfidence.
	Confidence float64

	// TargetRCIW is the desired relative confidence-interval
	// width in percent. 0 means DefaultTargetRCIW.
	TargetRCIW float64
}

// An Aggregate is a bounded, append-only set of Observations with
// incrementally maintained summary state. Statistics over the elapsed
// times (mean, variance, and friends) are updated on every Append
// using Welford's algorithm, so they are available in O(1) without a
// second pass over the raw values.
//
// An Aggregate is not safe for concurrent mutation. Comparisons and
// summaries only read, so any number of them may run at once as long
// as nobody is appending.
type Aggregate struct {
	name       string
	capacity   int
	gcStep     int
	baseKB     int64
	confidence float64 // percent
	targetRCIW float64 // percent

	timeNS   []int64
	beforeKB []int64
	afterKB  []int64
	allocKB  []int64

	count int
	sum   float64
	min   float64
	max   float64
	mean  float64
	m2    float64 // Welford's running sum of squared deviations
}

// NewAggregate returns an empty Aggregate that can hold up to capacity
// observations. cfg may be nil for all defaults.
func NewAggregate(capacity int, cfg *Config) (*Aggregate, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	a := &Aggregate{
		capacity:   capacity,
		confidence: DefaultConfidence,
		targetRCIW: DefaultTargetRCIW,
		timeNS:     make([]int64, 0, capacity),
		beforeKB:   make([]int64, 0, capacity),
		afterKB:    make([]int64, 0, capacity),
		allocKB:    make([]int64, 0, capacity),
	}
	if cfg != nil {
		if len(cfg.Name) > MaxNameLen {
			return nil, fmt.Errorf("%w: name longer than %d bytes", ErrInvalidArgument, MaxNameLen)
		}
		if cfg.Confidence != 0 && !(cfg.Confidence > 0 && cfg.Confidence <= 100) {
			return nil, fmt.Errorf("%w: confidence %v outside (0,100]", ErrInvalidArgument, cfg.Confidence)
		}
		if cfg.TargetRCIW != 0 && !(cfg.TargetRCIW > 0 && cfg.TargetRCIW <= 100) {
			return nil, fmt.Errorf("%w: target RCIW %v outside (0,100]", ErrInvalidArgument, cfg.TargetRCIW)
		}
		a.name = cfg.Name
		a.gcStep = cfg.GCStep
		a.baseKB = cfg.BaseKB
		if cfg.Confidence != 0 {
			a.confidence = cfg.Confidence
		}
		if cfg.TargetRCIW != 0 {
			a.targetRCIW = cfg.TargetRCIW
		}
	}
	return a, nil
}

// Append records one observation. It fails with ErrCapacity if the
// Aggregate is already full; call Reset to start a new collection
// cycle.
func (a *Aggregate) Append(o Observation) error {
	if a.count >= a.capacity {
		return fmt.Errorf("%w: aggregate already holds %d observations", ErrCapacity, a.capacity)
	}
	x := float64(o.TimeNS)
	a.count++
	a.sum += x
	if a.count == 1 {
		a.min, a.max = x, x
	} else {
		if x < a.min {
			a.min = x
		}
		if x > a.max {
			a.max = x
		}
	}
	delta := x - a.mean
	a.mean += delta / float64(a.count)
	a.m2 += delta * (x - a.mean)

	a.timeNS = append(a.timeNS, o.TimeNS)
	a.beforeKB = append(a.beforeKB, o.BeforeKB)
	a.afterKB = append(a.afterKB, o.AfterKB)
	a.allocKB = append(a.allocKB, o.AllocatedKB)
	return nil
}

// Reset discards all observations and summary state, preserving
// capacity and configuration, so the Aggregate can collect a fresh
// cycle of observations.
func (a *Aggregate) Reset() {
	a.timeNS = a.timeNS[:0]
	a.beforeKB = a.beforeKB[:0]
	a.afterKB = a.afterKB[:0]
	a.allocKB = a.allocKB[:0]
	a.count = 0
	a.sum = 0
	a.min = 0
	a.max = 0
	a.mean = 0
	a.m2 = 0
}

// Name returns the display name, which may be empty.
func (a *Aggregate) Name() string { return a.name }

// Capacity returns the maximum number of observations.
func (a *Aggregate) Capacity() int { return a.capacity }

// Count returns the number of observations recorded so far.
func (a *Aggregate) Count() int { return a.count }

// Confidence returns the configured confidence level in percent.
func (a *Aggregate) Confidence() float64 { return a.confidence }

// TargetRCIW returns the configured target relative
// confidence-interval width in percent.
func (a *Aggregate) TargetRCIW() float64 { return a.targetRCIW }

// GCStep returns the collector tuning mode.
func (a *Aggregate) GCStep() int { return a.gcStep }

// BaseKB returns the baseline resident memory in KB.
func (a *Aggregate) BaseKB() int64 { return a.baseKB }

// Sum returns the sum of the observed times in nanoseconds. It is 0
// for an empty Aggregate.
func (a *Aggregate) Sum() float64 { return a.sum }

// Min returns the smallest observed time, or NaN if empty.
func (a *Aggregate) Min() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.min
}

// Max returns the largest observed time, or NaN if empty.
func (a *Aggregate) Max() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.max
}

// Mean returns the arithmetic mean of the observed times, or NaN if
// empty.
func (a *Aggregate) Mean() float64 {
	if a.count == 0 {
		return math.NaN()
	}
	return a.mean
}

// Variance returns the sample variance M2/(count-1), or NaN if fewer
// than two observations have been recorded.
func (a *Aggregate) Variance() float64 {
	if a.count < 2 {
		return math.NaN()
	}
	return a.m2 / float64(a.count-1)
}

// Stddev returns the sample standard deviation, or NaN if fewer than
// two observations have been recorded.
func (a *Aggregate) Stddev() float64 {
	return math.Sqrt(a.Variance())
}

// Stderr returns the standard error of the mean, or NaN if fewer than
// two observations have been recorded.
func (a *Aggregate) Stderr() float64 {
	return a.Stddev() / math.Sqrt(float64(a.count))
}

// Percentile returns the q-th percentile of the observed times for q
// in [0,100], linearly interpolating between neighboring order
// statistics of a sorted copy. It fails with ErrInvalidArgument
// outside that range and returns NaN for an empty Aggregate.
func (a *Aggregate) Percentile(q float64) (float64, error) {
	if !(q >= 0 && q <= 100) {
		return 0, fmt.Errorf("%w: percentile %v outside [0,100]", ErrInvalidArgument, q)
	}
	if a.count == 0 {
		return math.NaN(), nil
	}
	return percentileSorted(a.Times(), q), nil
}

// percentileSorted sorts xs in place and interpolates the q-th
// percentile between the closest ranks.
func percentileSorted(xs []float64, q float64) float64 {
	sort.Float64s(xs)
	if len(xs) == 1 {
		return xs[0]
	}
	rank := q / 100 * float64(len(xs)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return xs[lo]
	}
	frac := rank - float64(lo)
	return xs[lo]*(1-frac) + xs[hi]*frac
}

// Times returns a copy of the observed times as float64 nanoseconds,
// in append order.
func (a *Aggregate) Times() []float64 {
	xs := make([]float64, a.count)
	for i, t := range a.timeNS {
		xs[i] = float64(t)
	}
	return xs
}

// Observations returns a copy of the raw observations in append
// order.
func (a *Aggregate) Observations() []Observation {
	obs := make([]Observation, a.count)
	for i := range obs {
		obs[i] = Observation{
			TimeNS:      a.timeNS[i],
			BeforeKB:    a.beforeKB[i],
			AfterKB:     a.afterKB[i],
			AllocatedKB: a.allocKB[i],
		}
	}
	return obs
}
