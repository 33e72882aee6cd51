// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/stat/distuv"
)

func TestZScoreReference(t *testing.T) {
	// Reference values for the half-width z-score of central
	// normal intervals, to 1e-10.
	check := func(confidence, want float64) {
		t.Helper()
		got := ZScore(confidence)
		if math.Abs(got-want) > 1e-10 {
			t.Errorf("ZScore(%v) = %.15v, want %.15v", confidence, got, want)
		}
	}
	check(0.80, 1.2815515655446004)
	check(0.90, 1.6448536269514722)
	check(0.95, 1.959963984540054)
	check(0.98, 2.3263478740408408)
	check(0.99, 2.5758293035489004)
	check(0.995, 2.807033768343811)
}

func TestNormalQuantileAgainstGonum(t *testing.T) {
	for p := 0.001; p < 1; p += 0.001 {
		want := distuv.UnitNormal.Quantile(p)
		got := NormalQuantile(p)
		if math.Abs(got-want) > 1e-10 {
			t.Fatalf("NormalQuantile(%v) = %v, want %v (diff %g)", p, got, want, got-want)
		}
	}
}

func TestNormalQuantileDomain(t *testing.T) {
	for _, p := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		if got := NormalQuantile(p); !math.IsNaN(got) {
			t.Errorf("NormalQuantile(%v) = %v, want NaN", p, got)
		}
		if got := ZScore(p); !math.IsNaN(got) {
			t.Errorf("ZScore(%v) = %v, want NaN", p, got)
		}
	}
}

func TestNormalQuantileMonotone(t *testing.T) {
	prev := math.Inf(-1)
	for p := 0.0005; p < 1; p += 0.0005 {
		q := NormalQuantile(p)
		if !(q > prev) {
			t.Fatalf("NormalQuantile not strictly increasing at p=%v: %v <= %v", p, q, prev)
		}
		prev = q
	}
	// Positive above the median, and unbounded toward 1.
	if NormalQuantile(0.75) <= 0 {
		t.Errorf("NormalQuantile(0.75) = %v, want > 0", NormalQuantile(0.75))
	}
	if NormalQuantile(1-1e-15) < 7 {
		t.Errorf("NormalQuantile(1-1e-15) = %v, want large", NormalQuantile(1-1e-15))
	}
}
