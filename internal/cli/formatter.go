package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dirrank/internal/dirsize"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dirsize.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs the report in YAML format.
func PrintYAML(report *dirsize.Report, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return encoder.Close()
}

// PrintPlain outputs one folder path per line, largest first.
func PrintPlain(report *dirsize.Report, writer io.Writer) error {
	for _, folder := range report.Folders {
		if _, err := fmt.Fprintln(writer, folder.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
func PrintTable(report *dirsize.Report, writer io.Writer) error {
	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	fmt.Fprintln(w, "\nTop directories:\t\t")

	for i, f := range report.Folders {
		pct := 0.0
		if report.TotalBytes > 0 {
			pct = 100.0 * float64(f.Size) / float64(report.TotalBytes)
		}

		fmt.Fprintf(w, "  %d) '%s'\t%s (%.1f%%)\n", i+1, f.Path, dirsize.FormatSize(f.Size), pct)
	}

	if len(report.Excluded) > 0 {
		fmt.Fprintln(w, "\nExcluded:\t\t")

		for _, path := range report.Excluded {
			fmt.Fprintf(w, "  '%s'\n", path)
		}
	}

	fmt.Fprintln(w, "\nStats:\t\t")
	fmt.Fprintf(w, "Root:\t%s\n", report.Root)
	fmt.Fprintf(w, "Total directories:\t%d\n", report.Children)
	fmt.Fprintf(w, "Total size:\t%s (%s bytes)\n",
		dirsize.FormatSize(report.TotalBytes), humanize.Comma(int64(report.TotalBytes))) //nolint:gosec // Disk sizes fit in int64
	fmt.Fprintf(w, "Skipped entries:\t%d\n", report.ErrorCount)

	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed)

	return w.Flush()
}
