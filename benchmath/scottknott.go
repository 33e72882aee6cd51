// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"math"
	"sort"
)

// scottKnott partitions the sample sets into statistically and
// practically distinct clusters (Scott-Knott with an effect-size
// stopping rule).
//
// The sets are sorted ascending by mean and recursively split at the
// point maximizing the count-weighted between-subset sum of squared
// mean deviations. A split is kept only when the Welch ANOVA over the
// two merged sides rejects equal means at alpha and Cohen's d between
// the sides is at least minEffect; otherwise the partition becomes a
// terminal cluster. The resulting clusters are compared all-pairs via
// the Welch+Holm machinery on their merged observations.
func scottKnott(aggs []*Aggregate, alpha, minEffect float64) ([]Pair, []Group, error) {
	if len(aggs) < 1 {
		return nil, nil, fmt.Errorf("%w: clustering needs at least 1 sample set", ErrInsufficientGroups)
	}

	sorted := append([]*Aggregate(nil), aggs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Mean() < sorted[j].Mean() })

	var clusters [][]*Aggregate
	var partition func(items []*Aggregate)
	partition = func(items []*Aggregate) {
		if len(items) == 1 {
			clusters = append(clusters, items)
			return
		}
		cut := bestSplit(items)
		left, right := items[:cut], items[cut:]
		if !splitDistinct(left, right, alpha, minEffect) {
			clusters = append(clusters, items)
			return
		}
		partition(left)
		partition(right)
	}
	partition(sorted)

	// Clusters come out in mean-ascending order because the input
	// was sorted and splits preserve it.
	merged := make([]*Aggregate, len(clusters))
	groups := make([]Group, len(clusters))
	for i, members := range clusters {
		merged[i] = mergeAggregates(fmt.Sprintf("cluster-%d", i+1), members)
		g := Group{
			Rank:      i + 1,
			ClusterID: i + 1,
			Mean:      merged[i].Mean(),
		}
		for _, m := range members {
			g.Members = append(g.Members, m.Name())
		}
		if i > 0 {
			g.CohenD = cohenD(merged[i-1], merged[i])
		}
		groups[i] = g
	}

	if len(merged) < 2 {
		return nil, groups, nil
	}
	pairs, _, err := comparePairwise(merged, alpha)
	if err != nil {
		return nil, nil, err
	}
	return pairs, groups, nil
}

// bestSplit returns the index (1..len-1) that splits items, already
// sorted by mean, maximizing the between-subset sum of squared mean
// deviations with each side weighted by its observation count.
func bestSplit(items []*Aggregate) int {
	grandW := 0.0
	grand := 0.0
	for _, a := range items {
		w := float64(a.Count())
		grandW += w
		grand += w * a.Mean()
	}
	grand /= grandW

	best, bestBSS := 1, math.Inf(-1)
	leftW, leftSum := 0.0, 0.0
	for cut := 1; cut < len(items); cut++ {
		w := float64(items[cut-1].Count())
		leftW += w
		leftSum += w * items[cut-1].Mean()
		rightW := grandW - leftW
		rightSum := grand*grandW - leftSum
		ml := leftSum / leftW
		mr := rightSum / rightW
		bss := leftW*(ml-grand)*(ml-grand) + rightW*(mr-grand)*(mr-grand)
		if bss > bestBSS {
			best, bestBSS = cut, bss
		}
	}
	return best
}

// splitDistinct reports whether the two sides of a candidate split
// are both statistically distinguishable (Welch ANOVA at alpha) and
// practically so (Cohen's d at least minEffect). A degenerate side
// that the omnibus test cannot handle counts as indistinguishable.
func splitDistinct(left, right []*Aggregate, alpha, minEffect float64) bool {
	l := mergeAggregates("left", left)
	r := mergeAggregates("right", right)
	res, err := WelchANOVA([]*Aggregate{l, r})
	if err != nil {
		return false
	}
	return res.P < alpha && cohenD(l, r) >= minEffect
}

// cohenD returns the standardized effect size |m1-m2|/s_pooled
// between two aggregates, or 0 when the pooled deviation is zero or
// undefined.
func cohenD(a, b *Aggregate) float64 {
	n1, n2 := float64(a.Count()), float64(b.Count())
	if n1+n2 < 3 {
		return 0
	}
	pooled := math.Sqrt(((n1-1)*a.Variance() + (n2-1)*b.Variance()) / (n1 + n2 - 2))
	if pooled == 0 || math.IsNaN(pooled) {
		return 0
	}
	return math.Abs(a.Mean()-b.Mean()) / pooled
}

// mergeAggregates builds one synthetic aggregate holding the
// concatenated observations of items, used to treat a cluster as a
// single sample set.
func mergeAggregates(name string, items []*Aggregate) *Aggregate {
	total := 0
	for _, a := range items {
		total += a.Count()
	}
	if total == 0 {
		total = 1
	}
	m, _ := NewAggregate(total, &Config{Name: name})
	for _, a := range items {
		for _, o := range a.Observations() {
			m.Append(o)
		}
	}
	return m
}
