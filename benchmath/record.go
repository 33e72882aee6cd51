// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import "fmt"

// A Record is the flat serialized form of an Aggregate, consumed by
// persistence and reporting collaborators. The per-observation arrays
// are parallel and of length Count; the aggregate fields Sum through
// M2 are carried verbatim so a round-trip through Export and Import is
// bit-for-bit exact.
type Record struct {
	Capacity    int     `json:"capacity"`
	Count       int     `json:"count"`
	TimeNS      []int64 `json:"time_ns"`
	BeforeKB    []int64 `json:"before_kb"`
	AfterKB     []int64 `json:"after_kb"`
	AllocatedKB []int64 `json:"allocated_kb"`
	GCStep      int     `json:"gc_step"`
	BaseKB      int64   `json:"base_kb"`
	CL          float64 `json:"cl"`
	RCIW        float64 `json:"rciw"`
	Name        string  `json:"name,omitempty"`

	Sum  float64 `json:"sum"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
	M2   float64 `json:"m2"`
}

// Export returns the flat serialized state of the Aggregate. The
// returned Record does not alias the Aggregate's storage.
func (a *Aggregate) Export() *Record {
	return &Record{
		Capacity:    a.capacity,
		Count:       a.count,
		TimeNS:      append([]int64(nil), a.timeNS...),
		BeforeKB:    append([]int64(nil), a.beforeKB...),
		AfterKB:     append([]int64(nil), a.afterKB...),
		AllocatedKB: append([]int64(nil), a.allocKB...),
		GCStep:      a.gcStep,
		BaseKB:      a.baseKB,
		CL:          a.confidence,
		RCIW:        a.targetRCIW,
		Name:        a.name,
		Sum:         a.sum,
		Min:         a.min,
		Max:         a.max,
		Mean:        a.mean,
		M2:          a.m2,
	}
}

// Import reconstructs an Aggregate from an exported Record. It fails
// with ErrBadRecord if the record is structurally inconsistent:
// non-positive capacity, count outside [0,capacity], array lengths
// disagreeing with count, negative array entries, confidence or
// target RCIW outside (0,100], or an over-long name. The aggregate
// fields are trusted verbatim; nothing is recomputed, so
// Import(Export(a)) reproduces a exactly.
func Import(r *Record) (*Aggregate, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil record", ErrBadRecord)
	}
	if r.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d is not positive", ErrBadRecord, r.Capacity)
	}
	if r.Count < 0 || r.Count > r.Capacity {
		return nil, fmt.Errorf("%w: count %d outside [0,%d]", ErrBadRecord, r.Count, r.Capacity)
	}
	arrays := []struct {
		name string
		xs   []int64
	}{
		{"time_ns", r.TimeNS},
		{"before_kb", r.BeforeKB},
		{"after_kb", r.AfterKB},
		{"allocated_kb", r.AllocatedKB},
	}
	for _, arr := range arrays {
		if len(arr.xs) != r.Count {
			return nil, fmt.Errorf("%w: %s has %d entries, count is %d", ErrBadRecord, arr.name, len(arr.xs), r.Count)
		}
		for i, x := range arr.xs {
			if x < 0 {
				return nil, fmt.Errorf("%w: %s[%d] is negative", ErrBadRecord, arr.name, i)
			}
		}
	}
	if !(r.CL > 0 && r.CL <= 100) {
		return nil, fmt.Errorf("%w: cl %v outside (0,100]", ErrBadRecord, r.CL)
	}
	if !(r.RCIW > 0 && r.RCIW <= 100) {
		return nil, fmt.Errorf("%w: rciw %v outside (0,100]", ErrBadRecord, r.RCIW)
	}
	if r.BaseKB < 0 {
		return nil, fmt.Errorf("%w: base_kb %d is negative", ErrBadRecord, r.BaseKB)
	}
	if len(r.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: name longer than %d bytes", ErrBadRecord, MaxNameLen)
	}

	a := &Aggregate{
		name:       r.Name,
		capacity:   r.Capacity,
		gcStep:     r.GCStep,
		baseKB:     r.BaseKB,
		confidence: r.CL,
		targetRCIW: r.RCIW,
		timeNS:     append(make([]int64, 0, r.Capacity), r.TimeNS...),
		beforeKB:   append(make([]int64, 0, r.Capacity), r.BeforeKB...),
		afterKB:    append(make([]int64, 0, r.Capacity), r.AfterKB...),
		allocKB:    append(make([]int64, 0, r.Capacity), r.AllocatedKB...),
		count:      r.Count,
		sum:        r.Sum,
		min:        r.Min,
		max:        r.Max,
		mean:       r.Mean,
		m2:         r.M2,
	}
	return a, nil
}
