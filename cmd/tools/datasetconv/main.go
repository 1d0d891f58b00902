// Command datasetconv normalizes an indicator dataset (CSV, JSON or XLSX,
// local or remote) into the JSON row layout the dashboard loads.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/macrolens/macrolens/internal/ingest"
	"github.com/macrolens/macrolens/internal/logging"
	"github.com/macrolens/macrolens/internal/timeseries"
)

var (
	outputPath string
	pretty     bool
	timeout    time.Duration
	retries    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "datasetconv",
		Short:         "Convert and inspect monthly indicator datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Download timeout for remote sources")
	rootCmd.PersistentFlags().IntVar(&retries, "retries", 3, "Retries for remote sources")

	convertCmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Write the dataset as a JSON array of monthly rows",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	convertCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	inspectCmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Print the date range and observation counts",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}

	rootCmd.AddCommand(convertCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(cmd *cobra.Command, source string) (*timeseries.Store, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.NewWithWriter(cmd.ErrOrStderr(), zerolog.WarnLevel))
	return ingest.LoadStore(ctx, source, ingest.FetchOptions{Timeout: timeout, MaxRetries: retries})
}

func runConvert(cmd *cobra.Command, args []string) error {
	store, err := load(cmd, args[0])
	if err != nil {
		return err
	}

	data, err := encodeRows(store, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath == "" {
		_, err := cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d rows to %s\n", store.Len(), outputPath)
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	store, err := load(cmd, args[0])
	if err != nil {
		return err
	}
	return writeSummary(cmd.OutOrStdout(), store)
}

// encodeRows renders every month as an object with Year, Month and Date
// followed by each indicator in column order. Missing values are null.
func encodeRows(store *timeseries.Store, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, rec := range store.Records() {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"Year":%d,"Month":%d,"Date":"%s"`, rec.Year(), int(rec.Month()), rec.Date().Format("2006-01-02"))
		for _, id := range store.Indicators() {
			key, err := json.Marshal(id)
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(rec.Value(id))
			if err != nil {
				return nil, err
			}
			buf.WriteByte(',')
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	if !indent {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeSummary(w io.Writer, store *timeseries.Store) error {
	fmt.Fprintf(w, "records:    %d\n", store.Len())
	if store.Len() > 0 {
		fmt.Fprintf(w, "range:      %s .. %s\n", store.FirstDate().Format("2006-01"), store.LastDate().Format("2006-01"))
	}
	fmt.Fprintf(w, "indicators: %d\n\n", len(store.Indicators()))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDICATOR\tOBSERVED\tMISSING")
	for _, id := range store.Indicators() {
		observed := len(store.Observed(id))
		fmt.Fprintf(tw, "%s\t%d\t%d\n", id, observed, store.Len()-observed)
	}
	return tw.Flush()
}
