package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evtol/core/report"
	"github.com/kilianp07/evtol/core/sessionlog"
	"github.com/kilianp07/evtol/pkg/export"
)

var reportOpts struct {
	format       string
	out          string
	start        string
	end          string
	manufacturer string
	total        bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize logged sessions per manufacturer",
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportOpts.format, "format", "f", "json", "output format ("+strings.Join(export.Formats, "|")+")")
	f.StringVarP(&reportOpts.out, "out", "o", "", "output file (default stdout)")
	f.StringVar(&reportOpts.start, "start", "", "only sessions starting at or after this RFC3339 time")
	f.StringVar(&reportOpts.end, "end", "", "only sessions starting at or before this RFC3339 time")
	f.StringVar(&reportOpts.manufacturer, "manufacturer", "", "only this manufacturer")
	f.BoolVar(&reportOpts.total, "total", false, "append a fleet-wide total row")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	var err error
	q := sessionlog.Query{Manufacturer: reportOpts.manufacturer}
	if q.Start, err = parseTime(reportOpts.start); err != nil {
		return err
	}
	if q.End, err = parseTime(reportOpts.end); err != nil {
		return err
	}

	store, err := sessionlog.Open(cfg.Logging.StoreOptions())
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	defer store.Close()
	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	sums := report.Build(recs)
	if reportOpts.total {
		sums = append(sums, report.Total(sums))
	}

	var w io.Writer = cmd.OutOrStdout()
	if reportOpts.out != "" {
		f, err := os.Create(reportOpts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return export.Write(w, reportOpts.format, sums)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t, nil
}
