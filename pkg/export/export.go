// Package export writes fleet reports as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/evtol/core/report"
)

// Formats lists the supported output formats.
var Formats = []string{"json", "csv", "html"}

// Write dispatches to the writer for format.
func Write(w io.Writer, format string, sums []report.Summary) error {
	switch format {
	case "json":
		return WriteJSON(w, sums)
	case "csv":
		return WriteCSV(w, sums)
	case "html":
		return WriteHTML(w, sums)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// WriteJSON writes the summaries to w as an indented JSON array.
func WriteJSON(w io.Writer, sums []report.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sums)
}

var csvHeader = []string{
	"manufacturer", "aircraft", "flights", "charges", "drained",
	"mean_flight_hours", "stddev_flight_hours", "mean_miles_per_flight",
	"mean_charge_hours", "stddev_charge_hours", "mean_wait_hours",
	"total_flight_hours", "total_miles", "total_faults", "total_passenger_miles",
}

// WriteCSV writes one row per summary under a header line.
func WriteCSV(w io.Writer, sums []report.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range sums {
		rec := []string{
			s.Manufacturer,
			strconv.Itoa(s.Aircraft),
			strconv.Itoa(s.Flights),
			strconv.Itoa(s.Charges),
			strconv.Itoa(s.Drained),
			ftoa(s.MeanFlightHours),
			ftoa(s.StdDevFlightHours),
			ftoa(s.MeanMilesPerFlight),
			ftoa(s.MeanChargeHours),
			ftoa(s.StdDevChargeHours),
			ftoa(s.MeanWaitHours),
			ftoa(s.TotalFlightHours),
			ftoa(s.TotalMiles),
			ftoa(s.TotalFaults),
			ftoa(s.TotalPassengerMiles),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHTML renders a bar chart comparing manufacturers.
func WriteHTML(w io.Writer, sums []report.Summary) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Fleet report", Subtitle: "simulated hours per manufacturer"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Manufacturer"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	names := make([]string, 0, len(sums))
	flight := make([]opts.BarData, 0, len(sums))
	charge := make([]opts.BarData, 0, len(sums))
	wait := make([]opts.BarData, 0, len(sums))
	for _, s := range sums {
		names = append(names, s.Manufacturer)
		flight = append(flight, opts.BarData{Value: s.MeanFlightHours})
		charge = append(charge, opts.BarData{Value: s.MeanChargeHours})
		wait = append(wait, opts.BarData{Value: s.MeanWaitHours})
	}
	bar.SetXAxis(names).
		AddSeries("Mean flight", flight).
		AddSeries("Mean charge", charge).
		AddSeries("Mean wait", wait)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
