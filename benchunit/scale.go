// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit formats benchmark quantities for display: elapsed
// times in nanoseconds and memory sizes in kilobytes, scaled to a
// human unit with at least three significant digits.
package benchunit

import (
	"fmt"
	"strconv"
)

// A Class selects the scaling family of a unit.
type Class int

const (
	// Decimal scales by powers of 1000 with SI prefixes; used for
	// times.
	Decimal Class = iota
	// Binary scales by powers of 1024 with IEC prefixes; used for
	// memory sizes.
	Binary
)

func (c Class) String() string {
	switch c {
	case Decimal:
		return "Decimal"
	case Binary:
		return "Binary"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// A Scaler is a fixed scaling factor plus the precision needed to
// show a value at three significant digits.
type Scaler struct {
	Prec   int     // digits after the decimal point
	Factor float64 // value of one Prefix unit
	Prefix string
}

// Format renders val scaled by s with its unit prefix appended.
func (s Scaler) Format(val float64) string {
	buf := make([]byte, 0, 20)
	buf = strconv.AppendFloat(buf, val/s.Factor, 'f', s.Prec, 64)
	buf = append(buf, s.Prefix...)
	return string(buf)
}

type factor struct {
	factor float64
	prefix string
}

var siFactors = []factor{
	{1e12, "T"}, {1e9, "G"}, {1e6, "M"}, {1e3, "k"},
	{1, ""}, {1e-3, "m"}, {1e-6, "µ"}, {1e-9, "n"},
}

var iecFactors = []factor{
	{1 << 40, "Ti"}, {1 << 30, "Gi"}, {1 << 20, "Mi"}, {1 << 10, "Ki"}, {1, ""},
}

// Scale formats val with at least three significant digits and an SI
// or IEC prefix according to cls.
func Scale(val float64, cls Class) string {
	return CommonScale([]float64{val}, cls).Format(val)
}

// CommonScale returns one Scaler suitable for every value in vals, so
// a column of related numbers shares a unit. The scale is chosen for
// the non-zero value closest to zero, which needs the most precision.
func CommonScale(vals []float64, cls Class) Scaler {
	var min float64
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v != 0 && (min == 0 || v < min) {
			min = v
		}
	}
	if min == 0 {
		return Scaler{3, 1, ""}
	}

	factors := siFactors
	if cls == Binary {
		factors = iecFactors
	}
	for _, f := range factors {
		switch {
		case min >= 100*f.factor:
			return Scaler{1, f.factor, f.prefix}
		case min >= 10*f.factor:
			return Scaler{2, f.factor, f.prefix}
		case min >= f.factor:
			return Scaler{3, f.factor, f.prefix}
		}
	}

	// Below the smallest prefix; add precision instead.
	f := factors[len(factors)-1]
	prec := 3
	for v := min / f.factor; v < 1 && prec < 10; v *= 10 {
		prec++
	}
	return Scaler{prec, f.factor, f.prefix}
}
