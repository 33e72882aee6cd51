// Copyright 2025 The Perfcmp Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Perfcmp summarizes and compares sets of benchmark measurements.
//
// Usage:
//
//	perfcmp [flags] [file.json ...]
//
// Each input file holds one exported sample record or a JSON array of
// them, as produced by a collection run. Alternatively -store loads
// the latest record of every sample set from a record database.
//
// Perfcmp prints a descriptive summary of every sample set, then a
// statistical comparison: which sets are distinguishable, how they
// rank, and the per-pair significance. With two to five sets the
// comparison is an all-pairs Welch t-test with Holm correction; with
// more, Scott-Knott effect-size clustering.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/perfcmp/perfcmp/benchmath"
	"github.com/perfcmp/perfcmp/benchunit"
	"github.com/perfcmp/perfcmp/storage"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: perfcmp [flags] [file.json ...]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	flagAlpha   = flag.Float64("alpha", 0.05, "family-wise significance `level`")
	flagEffect  = flag.Float64("effect", 0.2, "minimum Cohen's d the clustering treats as a real difference")
	flagOutlier = flag.String("outlier", "tukey", "outlier detection `method`: tukey or mad")
	flagStore   = flag.String("store", "", "load sample sets from the record database at `path`")
)

func main() {
	log.SetPrefix("perfcmp: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 && *flagStore == "" {
		usage()
	}

	method, err := benchmath.ParseOutlierMethod(*flagOutlier)
	if err != nil {
		log.Fatal(err)
	}

	var records []*benchmath.Record
	if *flagStore != "" {
		db, err := storage.Open(*flagStore)
		if err != nil {
			log.Fatal(err)
		}
		defer db.Close()
		records, err = db.LoadLatest(context.Background())
		if err != nil {
			log.Fatal(err)
		}
	}
	for _, path := range flag.Args() {
		rs, err := readRecords(path)
		if err != nil {
			log.Fatal(err)
		}
		records = append(records, rs...)
	}
	if len(records) == 0 {
		log.Fatal("no sample records found")
	}

	var aggs []*benchmath.Aggregate
	for _, r := range records {
		a, err := benchmath.Import(r)
		if err != nil {
			log.Fatalf("record %q: %v", r.Name, err)
		}
		aggs = append(aggs, a)
	}

	printSummaries(os.Stdout, aggs, method)

	cmp, err := benchmath.Compare(aggs, &benchmath.Options{
		Alpha:     *flagAlpha,
		MinEffect: *flagEffect,
	})
	if err != nil {
		log.Fatal(err)
	}
	printComparison(os.Stdout, cmp)
}

// readRecords reads one record or a JSON array of records from path.
func readRecords(path string) ([]*benchmath.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var list []*benchmath.Record
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	r := new(benchmath.Record)
	if err := json.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("%s: not a sample record or array of them: %v", path, err)
	}
	return []*benchmath.Record{r}, nil
}

func printSummaries(w *os.File, aggs []*benchmath.Aggregate, method benchmath.OutlierMethod) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tn\tmean\tp50\tp95\tci95\trciw\tquality\toutliers\talloc/op")
	for _, a := range aggs {
		s := benchmath.Summarize(a)
		outliers := "-"
		if out, err := benchmath.DetectOutliers(a, method); err == nil {
			outliers = fmt.Sprintf("%d (%.1f%%)", len(out.Indices), 100*float64(len(out.Indices))/float64(a.Count()))
		}
		fmt.Fprintf(tw, "%s\t%d\t%ss\t%ss\t%ss\t±%ss\t%s\t%s\t%s\t%sB\n",
			s.Name, s.N,
			timeStr(s.Mean), timeStr(s.P50), timeStr(s.P95),
			timeStr((s.Hi-s.Lo)/2),
			rciwStr(s.RCIW), s.Quality, outliers,
			memStr(s.Mem.AllocPerOpKB*1024))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printComparison(w *os.File, cmp *benchmath.Comparison) {
	fmt.Fprintf(w, "comparison: %s (%s)\n", cmp.Method.Name, cmp.Method.Description)

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, g := range cmp.Groups {
		label := fmt.Sprintf("rank %d", g.Rank)
		extra := ""
		if g.ClusterID != 0 && g.Rank > 1 {
			extra = fmt.Sprintf("\td=%.2f", g.CohenD)
		}
		fmt.Fprintf(tw, "%s\t%ss\t%s%s\n", label, timeStr(g.Mean), strings.Join(g.Members, ", "), extra)
	}
	tw.Flush()

	if len(cmp.Pairs) == 0 {
		return
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "pair\tspeedup\tdelta\tp\tadjusted\tsignificance")
	for _, p := range cmp.Pairs {
		fmt.Fprintf(tw, "%s vs %s\t%.3fx\t%s\t%s\t%s\t%s\n",
			p.A, p.B, p.Speedup, pctStr(p.RelDiff), pStr(p.P), pStr(p.AdjP), p.Level)
	}
	tw.Flush()
}

func timeStr(ns float64) string {
	if math.IsNaN(ns) {
		return "?"
	}
	// Values are nanoseconds; scale to seconds for display.
	return benchunit.Scale(ns/1e9, benchunit.Decimal)
}

func memStr(b float64) string {
	if math.IsNaN(b) {
		return "?"
	}
	return benchunit.Scale(b, benchunit.Binary)
}

func pctStr(pct float64) string {
	if math.IsNaN(pct) {
		return "?"
	}
	return fmt.Sprintf("%+.2f%%", pct)
}

func rciwStr(pct float64) string {
	if math.IsNaN(pct) {
		return "?"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

func pStr(p float64) string {
	if p < 0.001 {
		return "p<0.001"
	}
	return fmt.Sprintf("p=%.3f", p)
}
