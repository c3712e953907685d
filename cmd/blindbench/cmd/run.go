package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ai8future/blindbench"
	"github.com/ai8future/blindbench/store"
)

type runOptions struct {
	query     string
	modes     []string
	repeat    int
	format    string // table, csv, json
	seedCount int    // memory backend only
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the benchmark for a query",
		Long: `Derives keys, executes the selected retrieval modes strictly one after
another, and reports per-phase latency for each.

With the default memory backend a sample dataset is seeded into the process
first (--seed controls its size), making this a self-contained demo. Against
a dynamo backend the dataset must have been seeded beforehand with the same
passphrase, salt, and KDF profile.

Examples:
  blindbench run --query ann
  blindbench run --query ann --modes blind-index,decrypt-scan --repeat 5
  blindbench run --query ann --format csv > results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.query, "query", "q", "", "Name or email prefix to search for (required)")
	cmd.Flags().StringSliceVarP(&opts.modes, "modes", "m", nil, "Modes to run (default: all): blind-index, decrypt-scan, client-cache, plaintext-index")
	cmd.Flags().IntVarP(&opts.repeat, "repeat", "r", 1, "Number of sequential full runs")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, csv, json")
	cmd.Flags().IntVar(&opts.seedCount, "seed", 200, "Records to self-seed (memory backend only)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func runBench(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	modes := make([]blindbench.Mode, 0, len(opts.modes))
	for _, name := range opts.modes {
		mode, err := blindbench.ParseMode(name)
		if err != nil {
			return err
		}
		modes = append(modes, mode)
	}

	datasetID := a.cfg.Bench.DatasetID
	if a.cfg.Backend == "memory" {
		writer := a.store.(store.Writer)
		people := blindbench.GeneratePeople(opts.seedCount, 1)
		if err := blindbench.NewIndexer(a.keys).Seed(ctx, writer, datasetID, people); err != nil {
			return err
		}
	}

	runner, err := a.newRunner()
	if err != nil {
		return err
	}

	datasetSize := 0
	if info, err := a.store.GetDataset(ctx, datasetID); err == nil {
		datasetSize = info.Size
	}

	var rows []blindbench.Row
	var failed error
	// Repeated runs execute strictly sequentially; one run's I/O must not
	// overlap the next one's measurements.
	for i := 0; i < opts.repeat; i++ {
		results := runner.RunModes(ctx, datasetID, opts.query, modes...)
		ts := time.Now()
		for _, mr := range results {
			if mr.Err != nil {
				a.log.Error("mode failed", "mode", string(mr.Mode), "error", mr.Err)
				failed = errors.Join(failed, mr.Err)
				continue
			}
			rows = append(rows, blindbench.NewRow(ts, datasetID, datasetSize, opts.query, mr.Result))
		}
	}

	if err := printRows(opts.format, rows); err != nil {
		return err
	}
	return failed
}

func printRows(format string, rows []blindbench.Row) error {
	switch format {
	case "csv":
		return blindbench.WriteCSV(os.Stdout, rows)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODE\tTOTAL(ms)\tINDEX\tFETCH\tDECRYPT\tSCAN\tCACHE\tCOUNT\tNOTE")
		for _, r := range rows {
			fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%d\t%s\n",
				r.Mode, r.TotalMs, r.IndexMs, r.FetchMs, r.DecryptMs, r.ScanMs, r.CacheBuildMs,
				r.ResultCount, r.SampleNote)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
