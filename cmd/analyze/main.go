// Command analyze runs the conformance analysis on a survey request file and
// prints the report as JSON, without Kafka or geocoding.
//
// Usage:
//
//	go run ./cmd/analyze -in survey.json [-thresholds conformance.yaml] [-summary]
//
// Exit status is 0 for a conformant survey, 2 when non-conformities were
// found and 1 on error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/couchcryptid/deck-conformance/internal/config"
	"github.com/couchcryptid/deck-conformance/internal/domain"
	"github.com/couchcryptid/deck-conformance/internal/observability"
	"github.com/couchcryptid/deck-conformance/internal/pipeline"
)

func main() {
	code, err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "analyze:", err)
	}
	os.Exit(code)
}

func run(args []string, stdin io.Reader, stdout io.Writer) (int, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	in := fs.String("in", "-", "survey request JSON file, - for stdin")
	thresholdsFile := fs.String("thresholds", "", "YAML/JSON threshold profile (defaults to regulatory limits)")
	summary := fs.Bool("summary", false, "print a table of checks instead of the JSON report")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return 1, err
	}

	data, err := readInput(*in, stdin)
	if err != nil {
		return 1, err
	}

	thresholds, err := config.LoadThresholds(*thresholdsFile)
	if err != nil {
		return 1, err
	}

	logger := observability.NewLogger(*logLevel, "text")
	transformer := pipeline.NewTransformer(
		domain.NewAnalyzer(domain.WithThresholds(thresholds)),
		nil,
		logger,
		observability.NewMetricsWithRegistry(prometheus.NewRegistry()),
	)

	report, err := transformer.Build(context.Background(), data)
	if err != nil {
		return 1, err
	}

	if *summary {
		err = writeSummary(stdout, report)
	} else {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	}
	if err != nil {
		return 1, err
	}

	if !report.IsConformant {
		return 2, nil
	}
	return 0, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read survey request: %w", err)
	}
	return data, nil
}

func writeSummary(w io.Writer, report domain.ConformanceReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DECK\tCHECK\tSLOPE %\tLIMIT %\tTIER")
	for _, d := range report.Decks {
		for _, c := range d.Checks {
			fmt.Fprintf(tw, "%s\t%s\t%.3f\t%.1f\t%s\n", d.Name, c.Name, c.Inclination.Percentage, c.Status.Limit, c.Status.Tier)
		}
	}
	if report.Cross != nil {
		j := report.Cross.Junction
		fmt.Fprintf(tw, "-\t%s\t%.3f\t%.1f\t%s\n", j.Name, j.Inclination.Percentage, j.Status.Limit, j.Status.Tier)
	}
	for _, d := range report.Decks {
		fmt.Fprintf(tw, "%s\tskew\t%.2f deg\t\t%s (%s)\n", d.Name, d.Skew.SkewAngleDegrees, d.Skew.SkewStatus, d.Skew.GeometryClass)
	}
	for _, warn := range report.Warnings {
		fmt.Fprintf(tw, "!\t%s\t\t\t%s\n", warn.Code, warn.Pair)
	}
	fmt.Fprintf(tw, "\nnon-conformities: %d\tconformant: %t\tworst: %s\n", report.TotalNonConformities, report.IsConformant, worstTier(report))
	return tw.Flush()
}

func worstTier(report domain.ConformanceReport) domain.Tier {
	worst := domain.TierGood
	note := func(t domain.Tier) {
		if t.Rank() > worst.Rank() {
			worst = t
		}
	}
	for _, d := range report.Decks {
		for _, c := range d.Checks {
			note(c.Status.Tier)
		}
	}
	if report.Cross != nil {
		note(report.Cross.Junction.Status.Tier)
	}
	return worst
}
