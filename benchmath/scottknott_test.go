// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"testing"
)

func TestScottKnottFourLevels(t *testing.T) {
	// Eight sample sets around four well-separated means must
	// cluster into four rank-ordered pairs.
	aggs := []*Aggregate{
		jittered(t, "a1", 5e6, 20),
		jittered(t, "b1", 10e6, 20),
		jittered(t, "c1", 20e6, 20),
		jittered(t, "d1", 40e6, 20),
		jittered(t, "a2", 5e6, 20),
		jittered(t, "b2", 10e6, 20),
		jittered(t, "c2", 20e6, 20),
		jittered(t, "d2", 40e6, 20),
	}
	pairs, groups, err := scottKnott(aggs, 0.05, 0.2)
	if err != nil {
		t.Fatal(err)
	}

	if len(groups) != 4 {
		t.Fatalf("got %d clusters, want 4: %+v", len(groups), groups)
	}

	// Ranks ascend with cluster means, rank 1 holding the global
	// minimum, and the partition covers every input set.
	total := 0
	prevMean := 0.0
	for i, g := range groups {
		if g.Rank != i+1 {
			t.Errorf("cluster %d has rank %d", i, g.Rank)
		}
		if g.ClusterID != g.Rank {
			t.Errorf("cluster %d: id %d != rank %d", i, g.ClusterID, g.Rank)
		}
		if g.Mean <= prevMean {
			t.Errorf("cluster means not ascending: %v after %v", g.Mean, prevMean)
		}
		prevMean = g.Mean
		total += len(g.Members)
	}
	if total != len(aggs) {
		t.Errorf("clusters cover %d sets, want %d", total, len(aggs))
	}

	wantFast := map[string]bool{"a1": true, "a2": true}
	for _, m := range groups[0].Members {
		if !wantFast[m] {
			t.Errorf("rank-1 cluster contains %q, want only the 5ms sets", m)
		}
	}

	// Cohen's d: zero for the lowest cluster, large for the rest.
	if groups[0].CohenD != 0 {
		t.Errorf("lowest cluster d = %v, want 0", groups[0].CohenD)
	}
	for _, g := range groups[1:] {
		if g.CohenD < 0.2 {
			t.Errorf("cluster %d d = %v, want >= 0.2", g.Rank, g.CohenD)
		}
	}

	// Inter-cluster pairwise results cover all cluster pairs and
	// are all significant for this separation.
	if want := 6; len(pairs) != want {
		t.Fatalf("got %d inter-cluster pairs, want %d", len(pairs), want)
	}
	for _, p := range pairs {
		if !p.Significant {
			t.Errorf("pair %s/%s not significant (adjusted p = %v)", p.A, p.B, p.AdjP)
		}
	}
}

func TestScottKnottIndistinct(t *testing.T) {
	// Sets drawn around one mean collapse into a single cluster
	// with no pairwise comparisons.
	var aggs []*Aggregate
	for _, name := range []string{"u", "v", "w", "x", "y", "z"} {
		aggs = append(aggs, jittered(t, name, 10e6, 20))
	}
	pairs, groups, err := scottKnott(aggs, 0.05, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d clusters, want 1", len(groups))
	}
	if len(groups[0].Members) != len(aggs) {
		t.Errorf("cluster holds %d members, want %d", len(groups[0].Members), len(aggs))
	}
	if len(pairs) != 0 {
		t.Errorf("single cluster produced %d pairs, want 0", len(pairs))
	}
}

func TestScottKnottSingle(t *testing.T) {
	a := mustAgg(t, "solo", 10, 20, 30)
	pairs, groups, err := scottKnott([]*Aggregate{a}, 0.05, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 1 || len(pairs) != 0 {
		t.Fatalf("single set: %d groups, %d pairs", len(groups), len(pairs))
	}
	if groups[0].Members[0] != "solo" || groups[0].Rank != 1 {
		t.Errorf("group = %+v", groups[0])
	}
}

func TestCohenD(t *testing.T) {
	a := jittered(t, "a", 10e6, 20)
	b := jittered(t, "b", 10e6, 20)
	if d := cohenD(a, b); d != 0 {
		t.Errorf("identical distributions: d = %v, want 0", d)
	}
	c := jittered(t, "c", 20e6, 20)
	if d := cohenD(a, c); d < 0.8 {
		t.Errorf("widely separated means: d = %v, want large", d)
	}
	if d, e := cohenD(a, c), cohenD(c, a); d != e {
		t.Errorf("d not symmetric: %v vs %v", d, e)
	}
	flatA := mustAgg(t, "fa", 5, 5, 5)
	flatB := mustAgg(t, "fb", 5, 5, 5)
	if d := cohenD(flatA, flatB); d != 0 {
		t.Errorf("zero pooled deviation: d = %v, want 0", d)
	}
}
