// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "errors"

// Sentinel errors for the failure classes of this package. Callers
// should test for them with errors.Is; the wrapped messages carry the
// specifics.
//
// Mathematically undefined results (variance of a single observation,
// quantiles at p=0 or 1) are not errors: they are reported as NaN so
// that chained statistics compose without branching.
var (
	// ErrInvalidArgument reports an out-of-range or missing
	// parameter, such as a percentile outside [0,100] or an empty
	// comparison input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCapacity reports an Append on a full Aggregate.
	ErrCapacity = errors.New("capacity exceeded")

	// ErrInsufficientData reports too few observations for a
	// method, such as outlier detection on fewer than 4 values.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientGroups reports a comparison over fewer
	// sample sets than the method requires.
	ErrInsufficientGroups = errors.New("insufficient groups")

	// ErrInsufficientSamples reports a group with fewer than two
	// observations where a variance is required.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrDegenerateVariance reports a zero-variance group, which
	// breaks the weighting of the Welch ANOVA.
	ErrDegenerateVariance = errors.New("degenerate variance")

	// ErrBadRecord reports a structurally invalid exported record
	// on Import. Nothing is constructed from a bad record.
	ErrBadRecord = errors.New("invalid record state")
)
