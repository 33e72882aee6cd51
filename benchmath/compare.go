// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "fmt"

// maxPairwiseGroups is the largest comparison handled by the direct
// all-pairs method; beyond it the pair count grows quadratically and
// the Holm correction loses power, so larger inputs are clustered
// instead.
const maxPairwiseGroups = 5

// Options configures a comparison. The zero value of each field
// selects its default.
type Options struct {
	// Alpha is the family-wise significance level. 0 means 0.05.
	Alpha float64

	// MinEffect is the smallest Cohen's d the clustering method
	// treats as a real difference. 0 means 0.2, the conventional
	// floor below which an effect is negligible.
	MinEffect float64
}

const (
	defaultAlpha     = 0.05
	defaultMinEffect = 0.2
)

func (o *Options) alpha() float64 {
	if o == nil || o.Alpha == 0 {
		return defaultAlpha
	}
	return o.Alpha
}

func (o *Options) minEffect() float64 {
	if o == nil || o.MinEffect == 0 {
		return defaultMinEffect
	}
	return o.MinEffect
}

// A Method describes how a Comparison was produced.
type Method struct {
	// Name is a short stable identifier: "single", "pairwise", or
	// "scott-knott-esd".
	Name string

	// Algorithm identifies the underlying statistics.
	Algorithm string

	// Description is a human-readable explanation.
	Description string

	// Clustering describes the partitioning strategy; it is empty
	// unless the clustering method ran.
	Clustering string
}

// A Group is one rank in a Comparison: a set of sample sets that the
// chosen method could not tell apart. Groups are ordered ascending by
// mean, rank 1 being the fastest.
type Group struct {
	Rank    int
	Members []string
	Mean    float64

	// ClusterID and CohenD are set by the clustering method:
	// ClusterID is the stable cluster identifier and CohenD the
	// effect size against the next-lower-ranked cluster (0 for
	// the lowest). Both are zero for the other methods.
	ClusterID int
	CohenD    float64
}

// A Comparison is the immutable result of comparing a list of sample
// sets. It is recomputed from scratch whenever the input list
// changes; nothing in it aliases the input Aggregates.
type Comparison struct {
	Method Method
	Pairs  []Pair
	Groups []Group

	index map[pairKey]int
}

type pairKey struct{ a, b string }

func orderedKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{a, b}
}

// Pair looks up the pairwise result for the two named sample sets, in
// either order. The second result is false if the pair was not part
// of the comparison.
func (c *Comparison) Pair(a, b string) (Pair, bool) {
	i, ok := c.index[orderedKey(a, b)]
	if !ok {
		return Pair{}, false
	}
	return c.Pairs[i], true
}

func (c *Comparison) buildIndex() {
	c.index = make(map[pairKey]int, len(c.Pairs))
	for i, p := range c.Pairs {
		c.index[orderedKey(p.A, p.B)] = i
	}
}

// Compare determines which of the given sample sets are statistically
// distinguishable and ranks them. The method is chosen by input
// cardinality: a single set yields a trivial one-group result, 2 to 5
// sets run the all-pairs Welch test with Holm correction, and larger
// inputs run Scott-Knott effect-size clustering.
//
// The sets must be non-empty in number and uniquely named; violations
// fail with ErrInvalidArgument. The input Aggregates are only read.
func Compare(aggs []*Aggregate, opt *Options) (*Comparison, error) {
	if len(aggs) == 0 {
		return nil, fmt.Errorf("%w: comparison input is empty", ErrInvalidArgument)
	}
	seen := make(map[string]bool, len(aggs))
	for _, a := range aggs {
		if seen[a.Name()] {
			return nil, fmt.Errorf("%w: duplicate sample set name %q", ErrInvalidArgument, a.Name())
		}
		seen[a.Name()] = true
	}

	c := &Comparison{}
	switch {
	case len(aggs) == 1:
		c.Method = Method{
			Name:        "single",
			Algorithm:   "none",
			Description: "single sample set, nothing to compare",
		}
		c.Groups = []Group{{
			Rank:    1,
			Members: []string{aggs[0].Name()},
			Mean:    aggs[0].Mean(),
		}}
	case len(aggs) <= maxPairwiseGroups:
		pairs, groups, err := comparePairwise(aggs, opt.alpha())
		if err != nil {
			return nil, err
		}
		c.Method = Method{
			Name:        "pairwise",
			Algorithm:   "welch-t+holm",
			Description: "all-pairs Welch's t-test with Holm-Bonferroni correction",
		}
		c.Pairs = pairs
		c.Groups = groups
	default:
		pairs, groups, err := scottKnott(aggs, opt.alpha(), opt.minEffect())
		if err != nil {
			return nil, err
		}
		c.Method = Method{
			Name:        "scott-knott-esd",
			Algorithm:   "welch-anova+cohen-d",
			Description: "Scott-Knott effect-size clustering with Welch ANOVA splits",
			Clustering:  "divisive hierarchical, split on maximum between-subset sum of squares",
		}
		c.Pairs = pairs
		c.Groups = groups
	}
	c.buildIndex()
	return c, nil
}
