// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"errors"
	"testing"
)

func TestOutlierSingleFar(t *testing.T) {
	// Nine close values and one far outlier: both methods must
	// flag exactly the outlier.
	a := mustAgg(t, "o", 100, 110, 120, 130, 140, 150, 160, 170, 180, 1000)
	for _, method := range []OutlierMethod{Tukey, MAD} {
		out, err := DetectOutliers(a, method)
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Indices) != 1 || out.Indices[0] != 9 || out.Values[0] != 1000 {
			t.Errorf("%v: flagged %v (values %v), want index 9 value 1000", method, out.Indices, out.Values)
		}
	}
}

func TestOutlierNone(t *testing.T) {
	a := mustAgg(t, "o", 100, 110, 120, 130, 140)
	for _, method := range []OutlierMethod{Tukey, MAD} {
		out, err := DetectOutliers(a, method)
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Indices) != 0 {
			t.Errorf("%v: flagged %v, want none", method, out.Indices)
		}
	}
}

func TestOutlierInsufficientData(t *testing.T) {
	a := mustAgg(t, "o", 100, 110, 120)
	if _, err := DetectOutliers(a, Tukey); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("3 observations: got %v, want ErrInsufficientData", err)
	}
}

func TestOutlierMADZeroDeviation(t *testing.T) {
	// More than half the values at the median makes MAD zero; the
	// modified z-score is undefined and nothing may be flagged,
	// even though 5000 is an obvious outlier to the other rule.
	a := mustAgg(t, "o", 200, 200, 200, 200, 200, 5000)
	out, err := DetectOutliers(a, MAD)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Indices) != 0 {
		t.Errorf("MAD=0: flagged %v, want none", out.Indices)
	}
}

func TestOutlierDoesNotMutate(t *testing.T) {
	a := mustAgg(t, "o", 1000, 100, 180, 120, 160, 140)
	if _, err := DetectOutliers(a, Tukey); err != nil {
		t.Fatal(err)
	}
	if got := a.Observations()[0].TimeNS; got != 1000 {
		t.Errorf("observation order changed, first = %d", got)
	}
	if a.Count() != 6 {
		t.Errorf("count changed to %d", a.Count())
	}
}

func TestParseOutlierMethod(t *testing.T) {
	if m, err := ParseOutlierMethod("tukey"); err != nil || m != Tukey {
		t.Errorf("tukey: %v, %v", m, err)
	}
	if m, err := ParseOutlierMethod("mad"); err != nil || m != MAD {
		t.Errorf("mad: %v, %v", m, err)
	}
	if _, err := ParseOutlierMethod("zscore"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zscore: got %v, want ErrInvalidArgument", err)
	}
}
