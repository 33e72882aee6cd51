// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// A Significance buckets an adjusted p-value into the conventional
// reporting levels.
type Significance int

const (
	NotSignificant Significance = iota
	Significant05               // p < 0.05
	Significant01               // p < 0.01
	Significant001              // p < 0.001
)

func (s Significance) String() string {
	switch s {
	case Significant001:
		return "p<0.001"
	case Significant01:
		return "p<0.01"
	case Significant05:
		return "p<0.05"
	}
	return "n.s."
}

func significanceLevel(p float64) Significance {
	switch {
	case p < 0.001:
		return Significant001
	case p < 0.01:
		return Significant01
	case p < 0.05:
		return Significant05
	}
	return NotSignificant
}

// A Pair is the result of testing two named sample sets against each
// other with Welch's unequal-variance t-test.
type Pair struct {
	A, B string

	MeanA, MeanB float64

	// Speedup is MeanA/MeanB, or 0 when MeanB is not positive.
	Speedup float64

	// AbsDiff is MeanB-MeanA; RelDiff is the same as a percentage
	// of MeanA.
	AbsDiff, RelDiff float64

	// T and DF are the Welch t-statistic and Satterthwaite
	// degrees of freedom. They are NaN when the test could not be
	// run (for example, both sides have zero variance), in which
	// case P is 1.
	T, DF float64

	// P is the raw two-sided p-value; AdjP is P after
	// Holm-Bonferroni correction over all pairs in the
	// comparison.
	P, AdjP float64

	// Significant reports AdjP < alpha; Level buckets AdjP.
	Significant bool
	Level       Significance
}

// welchPair runs Welch's t-test between a and b and fills in every
// Pair field except the correction-dependent ones.
func welchPair(a, b *Aggregate) Pair {
	p := Pair{
		A:     a.Name(),
		B:     b.Name(),
		MeanA: a.Mean(),
		MeanB: b.Mean(),
	}
	if p.MeanB > 0 {
		p.Speedup = p.MeanA / p.MeanB
	}
	p.AbsDiff = p.MeanB - p.MeanA
	p.RelDiff = 100 * p.AbsDiff / p.MeanA

	t, err := stats.TwoSampleWelchTTest(
		stats.Sample{Xs: a.Times()},
		stats.Sample{Xs: b.Times()},
		stats.LocationDiffers)
	if err != nil {
		// The test degenerated (tiny sample or no variance on
		// either side). Report the pair as indistinguishable.
		p.T = math.NaN()
		p.DF = math.NaN()
		p.P = 1
		return p
	}
	p.T = t.T
	p.DF = t.DoF
	p.P = t.P
	return p
}

// HolmAdjust applies the Holm-Bonferroni step-down correction to a
// list of raw p-values and returns the adjusted values in the same
// order. Each adjusted value is at least its raw value, capped at 1,
// and the adjusted values are monotone in the raw ordering.
func HolmAdjust(ps []float64) []float64 {
	m := len(ps)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return ps[order[i]] < ps[order[j]] })

	adj := make([]float64, m)
	running := 0.0
	for k, idx := range order {
		v := float64(m-k) * ps[idx]
		if v > 1 {
			v = 1
		}
		if v < running {
			v = running // enforce monotonicity
		}
		running = v
		adj[idx] = v
	}
	return adj
}

// comparePairwise runs the all-pairs Welch test with Holm correction
// over the given sample sets and groups the statistically
// indistinguishable ones. It requires at least two sets.
func comparePairwise(aggs []*Aggregate, alpha float64) ([]Pair, []Group, error) {
	if len(aggs) < 2 {
		return nil, nil, fmt.Errorf("%w: pairwise comparison needs at least 2 sample sets, have %d", ErrInsufficientGroups, len(aggs))
	}
	var pairs []Pair
	for i := 0; i < len(aggs); i++ {
		for j := i + 1; j < len(aggs); j++ {
			pairs = append(pairs, welchPair(aggs[i], aggs[j]))
		}
	}
	ps := make([]float64, len(pairs))
	for i, p := range pairs {
		ps[i] = p.P
	}
	adj := HolmAdjust(ps)
	for i := range pairs {
		pairs[i].AdjP = adj[i]
		pairs[i].Significant = adj[i] < alpha
		pairs[i].Level = significanceLevel(adj[i])
	}
	return pairs, letterGroups(aggs, pairs, alpha), nil
}

// letterGroups computes the compact-letter grouping: sample sets
// connected by a non-significant pair land in the same group. Groups
// are ranked ascending by the mean of their members' means.
func letterGroups(aggs []*Aggregate, pairs []Pair, alpha float64) []Group {
	n := len(aggs)
	pos := make(map[string]int, n)
	for i, a := range aggs {
		pos[a.Name()] = i
	}

	// Symmetric "statistically indistinguishable" relation.
	same := make([][]bool, n)
	for i := range same {
		same[i] = make([]bool, n)
		same[i][i] = true
	}
	for _, p := range pairs {
		i, iok := pos[p.A]
		j, jok := pos[p.B]
		if !iok || !jok {
			continue
		}
		if p.AdjP >= alpha {
			same[i][j] = true
			same[j][i] = true
		}
	}

	// Connected components, visited in input order so the result
	// is deterministic.
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	var members [][]int
	for i := 0; i < n; i++ {
		if comp[i] != -1 {
			continue
		}
		id := len(members)
		stack := []int{i}
		comp[i] = id
		var ms []int
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			ms = append(ms, v)
			for w := 0; w < n; w++ {
				if same[v][w] && comp[w] == -1 {
					comp[w] = id
					stack = append(stack, w)
				}
			}
		}
		sort.Ints(ms)
		members = append(members, ms)
	}

	groups := make([]Group, len(members))
	for i, ms := range members {
		g := Group{}
		var sum float64
		for _, idx := range ms {
			g.Members = append(g.Members, aggs[idx].Name())
			sum += aggs[idx].Mean()
		}
		g.Mean = sum / float64(len(ms))
		groups[i] = g
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Mean < groups[j].Mean })
	for i := range groups {
		groups[i].Rank = i + 1
	}
	return groups
}
