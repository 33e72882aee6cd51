// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "math"

// NormalQuantile returns the p-quantile of the standard normal
// distribution, that is, the x for which P(X <= x) = p.
//
// It returns NaN if p <= 0 or p >= 1. This is a domain policy, not an
// error: callers that chain quantiles into further arithmetic rely on
// NaN propagation.
//
// The approximation is Acklam's rational polynomial split into a
// central region and two tails, followed by a single Halley refinement
// step against the exact normal CDF. The refined result is accurate to
// well below 1e-10 absolute error over the practical range.
func NormalQuantile(p float64) float64 {
	if !(p > 0 && p < 1) {
		return math.NaN()
	}

	var x float64
	switch {
	case p < pLow:
		q := math.Sqrt(-2 * math.Log(p))
		x = (((((cn[0]*q+cn[1])*q+cn[2])*q+cn[3])*q+cn[4])*q + cn[5]) /
			((((dn[0]*q+dn[1])*q+dn[2])*q+dn[3])*q + 1)
	case p <= pHigh:
		q := p - 0.5
		r := q * q
		x = (((((an[0]*r+an[1])*r+an[2])*r+an[3])*r+an[4])*r + an[5]) * q /
			(((((bn[0]*r+bn[1])*r+bn[2])*r+bn[3])*r+bn[4])*r + 1)
	default:
		q := math.Sqrt(-2 * math.Log(1-p))
		x = -(((((cn[0]*q+cn[1])*q+cn[2])*q+cn[3])*q+cn[4])*q + cn[5]) /
			((((dn[0]*q+dn[1])*q+dn[2])*q+dn[3])*q + 1)
	}

	// One step of Halley's method on Phi(x) - p = 0.
	e := normalCDF(x) - p
	u := e * math.Sqrt(2*math.Pi) * math.Exp(x*x/2)
	return x - u/(1+x*u/2)
}

// ZScore returns the z-score whose central standard-normal interval
// has the given confidence, i.e. the (1+confidence)/2 normal quantile.
// For example, ZScore(0.95) is about 1.96. It returns NaN if
// confidence is outside (0,1).
func ZScore(confidence float64) float64 {
	if !(confidence > 0 && confidence < 1) {
		return math.NaN()
	}
	return NormalQuantile((1 + confidence) / 2)
}

func normalCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// Acklam's coefficients. The breakpoints delimit the lower tail,
// central region, and upper tail of the approximation.
const (
	pLow  = 0.02425
	pHigh = 1 - pLow
)

var (
	an = [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	bn = [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	cn = [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	dn = [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}
)
