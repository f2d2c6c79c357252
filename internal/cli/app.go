// Package cli implements the examhub command line tool. It works on
// CSV files directly and does not need a running server or database.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"text/tabwriter"

	"github.com/Krapic/examhub/internal/csvio"
	"github.com/Krapic/examhub/internal/exam"
	"github.com/Krapic/examhub/internal/ingest"
	"github.com/Krapic/examhub/internal/synth"
)

const usage = `usage: examhub <command> [flags]

Commands:
  generate  create a synthetic result CSV
  stats     print statistics for a result CSV
  check     report whether a CSV would load cleanly
  export    filter and sort a result CSV into a new file

Run 'examhub <command> -h' for the flags of a command.`

// Run executes the command named by args[0] and writes its output to out.
func Run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(out, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "generate":
		return runGenerate(args[1:], out)
	case "stats":
		return runStats(args[1:], out)
	case "check":
		return runCheck(args[1:], out)
	case "export":
		return runExport(args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q", args[0])
}

func runGenerate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(out)
	count := fs.Int("n", 50, "number of records")
	outPath := fs.String("o", "results.csv", "output file")
	profile := fs.String("profile", "", "YAML generator profile")
	seed := fs.Int64("seed", 0, "random seed (0 seeds from the current time)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := synth.DefaultConfig()
	if *profile != "" {
		loaded, err := synth.LoadProfile(*profile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	gen := synth.Generator{Config: cfg}
	if *seed != 0 {
		gen.Rand = rand.New(rand.NewSource(*seed))
	}

	ds, err := gen.GenerateFile(*outPath, *count)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d records to %s\n", ds.Len(), *outPath)
	return nil
}

func runStats(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("f", "", "result CSV to analyze (required)")
	term := fs.String("term", "", "restrict to one term")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("stats: -f is required")
	}

	ds, err := ingest.Load(*path)
	if err != nil {
		return err
	}
	if *term != "" {
		ds = ds.FilterTerm(*term)
	}

	printStats(out, ds.Stats())
	return nil
}

func runCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(out)
	path := fs.String("f", "", "CSV file to check (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("check: -f is required")
	}

	if ok, reason := ingest.Probe(*path); !ok {
		fmt.Fprintf(out, "%s: %s\n", *path, reason)
		return fmt.Errorf("%s would not load", *path)
	}
	fmt.Fprintf(out, "%s: ok\n", *path)
	return nil
}

func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	inPath := fs.String("f", "", "source CSV (required)")
	outPath := fs.String("o", "", "destination CSV (required)")
	term := fs.String("term", "", "keep only this term")
	grade := fs.Int("grade", 0, "keep only this grade")
	minScore := fs.Int("min", exam.MinScore, "lowest score to keep")
	maxScore := fs.Int("max", exam.MaxScore, "highest score to keep")
	search := fs.String("q", "", "keep only students whose name contains this")
	sortCol := fs.String("sort", "", "column to sort by")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *inPath == "" || *outPath == "" {
		return errors.New("export: -f and -o are required")
	}

	ds, err := ingest.Load(*inPath)
	if err != nil {
		return err
	}

	if *term != "" {
		ds = ds.FilterTerm(*term)
	}
	if *grade != 0 {
		ds = ds.FilterGrade(*grade)
	}
	ds = ds.FilterScoreRange(*minScore, *maxScore).Search(*search)
	if *sortCol != "" {
		key, err := exam.ParseSortKey(*sortCol)
		if err != nil {
			return err
		}
		ds = ds.SortBy(key, *desc)
	}

	if err := csvio.WriteFile(*outPath, ds); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %d records to %s\n", ds.Len(), *outPath)
	return nil
}

func printStats(out io.Writer, s exam.Statistics) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "records\t%d\n", s.Count)
	fmt.Fprintf(tw, "avg score\t%.2f\n", s.AvgScore)
	fmt.Fprintf(tw, "std score\t%.2f\n", s.StdScore)
	fmt.Fprintf(tw, "median score\t%.1f\n", s.MedianScore)
	fmt.Fprintf(tw, "score range\t%d-%d\n", s.MinScore, s.MaxScore)
	fmt.Fprintf(tw, "avg grade\t%.2f\n", s.AvgGrade)
	fmt.Fprintf(tw, "pass rate\t%.1f%% (%d of %d)\n", s.PassRate, s.PassedCount, s.Count)
	tw.Flush()

	if s.Count == 0 {
		return
	}

	fmt.Fprintf(out, "\ngrades\n")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for g := exam.MaxGrade; g >= exam.MinGrade; g-- {
		fmt.Fprintf(tw, "  %d\t%d\n", g, s.GradeDistribution[g])
	}
	tw.Flush()

	if len(s.TermStats) > 1 {
		terms := make([]string, 0, len(s.TermStats))
		for t := range s.TermStats {
			terms = append(terms, t)
		}
		sort.Strings(terms)

		fmt.Fprintf(out, "\nterms\n")
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, t := range terms {
			ts := s.TermStats[t]
			fmt.Fprintf(tw, "  %s\t%d records\tavg %.1f\tpass %.1f%%\n", t, ts.Count, ts.AvgScore, ts.PassRate)
		}
		tw.Flush()
	}
}
