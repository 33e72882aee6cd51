// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// An ANOVA holds the result of a Welch unequal-variance F-test across
// two or more groups.
type ANOVA struct {
	F        float64
	DF1, DF2 float64
	P        float64
}

// WelchANOVA runs the unequal-variance one-way F-test over the given
// groups without mutating them. Every group must hold at least two
// observations and have strictly positive variance; violations are
// reported as ErrInsufficientSamples and ErrDegenerateVariance rather
// than silently approximated, since a zero-variance group makes the
// group weights meaningless.
func WelchANOVA(groups []*Aggregate) (*ANOVA, error) {
	k := len(groups)
	if k < 2 {
		return nil, fmt.Errorf("%w: omnibus test needs at least 2 groups, have %d", ErrInsufficientGroups, k)
	}
	for _, g := range groups {
		if g.Count() < 2 {
			return nil, fmt.Errorf("%w: group %q has %d observations, need at least 2", ErrInsufficientSamples, g.Name(), g.Count())
		}
		if g.Variance() == 0 {
			return nil, fmt.Errorf("%w: group %q has zero variance", ErrDegenerateVariance, g.Name())
		}
	}

	// Group weights w_i = n_i/s_i^2 and the weighted grand mean.
	ws := make([]float64, k)
	var wSum, grand float64
	for i, g := range groups {
		ws[i] = float64(g.Count()) / g.Variance()
		wSum += ws[i]
		grand += ws[i] * g.Mean()
	}
	grand /= wSum

	var num float64
	for i, g := range groups {
		d := g.Mean() - grand
		num += ws[i] * d * d
	}
	num /= float64(k - 1)

	// Correction term for the unequal variances.
	var lambda float64
	for i, g := range groups {
		t := 1 - ws[i]/wSum
		lambda += t * t / float64(g.Count()-1)
	}
	kk := float64(k)
	den := 1 + 2*(kk-2)*lambda/(kk*kk-1)

	r := &ANOVA{
		F:   num / den,
		DF1: kk - 1,
		DF2: (kk*kk - 1) / (3 * lambda),
	}
	f := distuv.F{D1: r.DF1, D2: r.DF2}
	r.P = 1 - f.CDF(r.F)
	return r, nil
}
