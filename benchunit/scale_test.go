// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchunit

import "testing"

func TestScale(t *testing.T) {
	test := func(val float64, cls Class, want string) {
		t.Helper()
		if got := Scale(val, cls); got != want {
			t.Errorf("Scale(%v, %v) = %q, want %q", val, cls, got, want)
		}
	}
	test(0, Decimal, "0.000")
	test(1, Decimal, "1.000")
	test(12.5, Decimal, "12.50")
	test(123456, Decimal, "123.5k")
	test(12345678, Decimal, "12.35M")
	test(1.5e10, Decimal, "15.00G")
	test(0.01234, Decimal, "12.34m")
	test(1.5e-7, Decimal, "150.0n")

	test(1, Binary, "1.000")
	test(1024, Binary, "1.000Ki")
	test(1<<20, Binary, "1.000Mi")
	test(3*(1<<30), Binary, "3.000Gi")
	test(1000, Binary, "1000.0")
}

func TestCommonScale(t *testing.T) {
	s := CommonScale([]float64{1500, 2e6, 4e9}, Decimal)
	if s.Prefix != "k" {
		t.Errorf("common prefix = %q, want k (chosen for the smallest value)", s.Prefix)
	}
	if got := s.Format(2e6); got != "2000.000k" {
		t.Errorf("Format(2e6) = %q", got)
	}
}
