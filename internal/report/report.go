// Package report prints the selection a session ended with.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"

	"github.com/schollz/waveseg/internal/timeaxis"
	"github.com/schollz/waveseg/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Report is the final state of one editor
type Report struct {
	File       string          `json:"file"`
	DurationMs int64           `json:"duration_ms"`
	Mode       string          `json:"mode"`
	Segments   []types.Segment `json:"segments,omitempty"`
	Window     *types.Segment  `json:"window,omitempty"`
	Segment    *types.Segment  `json:"segment,omitempty"`
}

// JSON writes r as indented JSON
func JSON(w io.Writer, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteFile writes r as JSON to path
func WriteFile(path string, r Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := JSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a report written by JSON
func Read(rd io.Reader) (Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return r, nil
}

// Table writes r as a colored table
func Table(w io.Writer, r Report) error {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	faint := color.New(color.Faint)

	bold.Fprintf(w, "%s", r.File)
	faint.Fprintf(w, " %s, %s\n", timeaxis.MmSs(r.DurationMs), r.Mode)

	row := func(label string, s types.Segment) {
		fmt.Fprintf(w, "%-8s ", label)
		cyan.Fprintf(w, "%9s %9s", timeaxis.Seconds(s.Start), timeaxis.Seconds(s.End))
		green.Fprintf(w, " %8ss\n", timeaxis.Seconds(s.Duration()))
	}

	if r.Window != nil {
		row("window", *r.Window)
	}
	if r.Segment != nil {
		row("segment", *r.Segment)
	}
	for i, s := range r.Segments {
		row(fmt.Sprintf("#%d", i+1), s)
	}
	if r.Window == nil && r.Segment == nil && len(r.Segments) == 0 {
		faint.Fprintln(w, "no segments")
	}
	return nil
}

// Write picks JSON or the table
func Write(w io.Writer, r Report, asJSON bool) error {
	if asJSON {
		return JSON(w, r)
	}
	return Table(w, r)
}
