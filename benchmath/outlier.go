// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"math"
)

// An OutlierMethod selects the rule used to flag anomalous
// observations.
type OutlierMethod int

const (
	// Tukey flags values outside [Q1-1.5*IQR, Q3+1.5*IQR].
	Tukey OutlierMethod = iota

	// MAD flags values whose modified z-score against the median
	// absolute deviation exceeds 3.5 in magnitude.
	MAD
)

func (m OutlierMethod) String() string {
	switch m {
	case Tukey:
		return "tukey"
	case MAD:
		return "mad"
	}
	return fmt.Sprintf("OutlierMethod(%d)", int(m))
}

// ParseOutlierMethod converts a method name ("tukey" or "mad") to an
// OutlierMethod.
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch s {
	case "tukey":
		return Tukey, nil
	case "mad":
		return MAD, nil
	}
	return 0, fmt.Errorf("%w: unknown outlier method %q", ErrInvalidArgument, s)
}

const (
	tukeyFence = 1.5

	// The modified z-score scales deviations from the median by
	// 0.6745/MAD, making it comparable to a standard z-score for
	// normal data. 3.5 is Iglewicz and Hoaglin's recommended cut.
	madConsistency = 0.6745
	madZCut        = 3.5
)

// Outliers reports the observations an OutlierMethod flagged in one
// Aggregate.
type Outliers struct {
	Method OutlierMethod

	// Indices are positions in the Aggregate's append order,
	// ascending. Values holds the corresponding observed times.
	Indices []int
	Values  []float64

	// Lo and Hi are the fences used by the Tukey method. They are
	// NaN for MAD, which has no interval form.
	Lo, Hi float64
}

// DetectOutliers flags anomalous observed times in a without mutating
// it. It fails with ErrInsufficientData when a holds fewer than 4
// observations, below which neither rule is meaningful.
func DetectOutliers(a *Aggregate, method OutlierMethod) (*Outliers, error) {
	if a.Count() < 4 {
		return nil, fmt.Errorf("%w: outlier detection needs at least 4 observations, have %d", ErrInsufficientData, a.Count())
	}
	xs := a.Times()
	out := &Outliers{Method: method, Lo: math.NaN(), Hi: math.NaN()}
	switch method {
	case Tukey:
		sorted := append([]float64(nil), xs...)
		q1 := percentileSorted(sorted, 25)
		q3 := percentileSorted(sorted, 75)
		iqr := q3 - q1
		out.Lo = q1 - tukeyFence*iqr
		out.Hi = q3 + tukeyFence*iqr
		for i, x := range xs {
			if x < out.Lo || x > out.Hi {
				out.Indices = append(out.Indices, i)
				out.Values = append(out.Values, x)
			}
		}
	case MAD:
		sorted := append([]float64(nil), xs...)
		med := percentileSorted(sorted, 50)
		devs := make([]float64, len(xs))
		for i, x := range xs {
			devs[i] = math.Abs(x - med)
		}
		mad := percentileSorted(devs, 50)
		if mad == 0 {
			// Every deviation is zero at the median; the
			// modified z-score is undefined and nothing is
			// flagged.
			return out, nil
		}
		for i, x := range xs {
			z := madConsistency * (x - med) / mad
			if math.Abs(z) > madZCut {
				out.Indices = append(out.Indices, i)
				out.Values = append(out.Values, x)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown outlier method %d", ErrInvalidArgument, int(method))
	}
	return out, nil
}
