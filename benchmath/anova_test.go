// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"errors"
	"math"
	"testing"
)

func TestWelchANOVAErrors(t *testing.T) {
	ok := mustAgg(t, "ok", 10, 20, 30, 40)
	if _, err := WelchANOVA([]*Aggregate{ok}); !errors.Is(err, ErrInsufficientGroups) {
		t.Errorf("one group: got %v, want ErrInsufficientGroups", err)
	}

	short := mustAgg(t, "short", 10)
	if _, err := WelchANOVA([]*Aggregate{ok, short}); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("count<2: got %v, want ErrInsufficientSamples", err)
	}

	flat := mustAgg(t, "flat", 10, 10, 10)
	if _, err := WelchANOVA([]*Aggregate{ok, flat}); !errors.Is(err, ErrDegenerateVariance) {
		t.Errorf("zero variance: got %v, want ErrDegenerateVariance", err)
	}
}

func TestWelchANOVATwoGroupsMatchesTTest(t *testing.T) {
	// With exactly two groups the Welch F-statistic is the square
	// of the Welch t-statistic, the second degrees of freedom is
	// the Satterthwaite value, and the p-values agree.
	a := jittered(t, "a", 10e6, 20)
	b := jittered(t, "b", 11e6, 25)

	res, err := WelchANOVA([]*Aggregate{a, b})
	if err != nil {
		t.Fatal(err)
	}
	pr := welchPair(a, b)

	if !aeq(res.F, pr.T*pr.T) {
		t.Errorf("F = %v, t^2 = %v", res.F, pr.T*pr.T)
	}
	if !aeq(res.DF2, pr.DF) {
		t.Errorf("df2 = %v, Satterthwaite df = %v", res.DF2, pr.DF)
	}
	if res.DF1 != 1 {
		t.Errorf("df1 = %v, want 1", res.DF1)
	}
	if math.Abs(res.P-pr.P) > 1e-6 {
		t.Errorf("p = %v, t-test p = %v", res.P, pr.P)
	}
}

func TestWelchANOVASeparation(t *testing.T) {
	same := []*Aggregate{
		jittered(t, "x", 10e6, 20),
		jittered(t, "y", 10e6, 20),
		jittered(t, "z", 10e6, 20),
	}
	res, err := WelchANOVA(same)
	if err != nil {
		t.Fatal(err)
	}
	if res.P < 0.9 {
		t.Errorf("identical groups: p = %v, want about 1", res.P)
	}
	if res.F > 1e-9 {
		t.Errorf("identical groups: F = %v, want about 0", res.F)
	}

	apart := []*Aggregate{
		jittered(t, "x", 10e6, 20),
		jittered(t, "y", 15e6, 20),
		jittered(t, "z", 30e6, 20),
	}
	res, err = WelchANOVA(apart)
	if err != nil {
		t.Fatal(err)
	}
	if res.P >= 0.05 {
		t.Errorf("separated groups: p = %v, want < 0.05", res.P)
	}
	if res.DF1 != 2 {
		t.Errorf("df1 = %v, want 2", res.DF1)
	}
}

func TestWelchANOVADoesNotMutate(t *testing.T) {
	a := jittered(t, "a", 10e6, 10)
	b := jittered(t, "b", 12e6, 10)
	before := a.Export()
	if _, err := WelchANOVA([]*Aggregate{a, b}); err != nil {
		t.Fatal(err)
	}
	after := a.Export()
	if after.Count != before.Count || after.Sum != before.Sum || after.M2 != before.M2 {
		t.Error("WelchANOVA mutated its input")
	}
}
