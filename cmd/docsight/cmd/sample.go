package cmd

import (
	"errors"
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsight/docsight/internal/doctags"
)

// sampleCmd represents the sample command.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Emit or process the built-in sample document",
	Long: `Emit the built-in sample financial-report DocTags payload, or run the
extraction pipeline on it.

Examples:
  docsight sample                       # print the raw DocTags
  docsight sample --run                 # run extraction, print metrics
  docsight sample --run --format json
  docsight sample --overlay page.png    # render the annotated page`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		run, _ := cmd.Flags().GetBool("run")
		overlayPath, _ := cmd.Flags().GetString("overlay")

		if !run && overlayPath == "" {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), doctags.SampleDocTags())
			return nil
		}

		cfg := GetConfig()
		pl, err := cfg.PipelineBuilder().Build()
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %w", err)
		}

		res, err := pl.Process(doctags.SampleDocTags())
		if err != nil {
			return fmt.Errorf("failed to process sample document: %w", err)
		}

		if run {
			format, _ := cmd.Flags().GetString("format")
			var out = cmd.OutOrStdout()
			switch format {
			case outputFormatJSON:
				_, _ = fmt.Fprintln(out, res.JSON)
			case outputFormatCSV:
				_, _ = fmt.Fprint(out, res.CSV)
			default:
				_, _ = fmt.Fprintf(out, "Tables: %d\n", len(res.Document.Tables))
				_, _ = fmt.Fprintf(out, "Key Metrics: %d\n", res.Metrics.Len())
				for _, name := range res.Metrics.Names() {
					value, _ := res.Metrics.Get(name)
					_, _ = fmt.Fprintf(out, "  %s: %s\n", name, value)
				}
			}
		}

		if overlayPath != "" {
			img := pl.Overlay(res, 0)
			if img == nil {
				return errors.New("overlay rendering failed")
			}
			f, err := os.Create(overlayPath) //nolint:gosec // G304: CLI output path
			if err != nil {
				return fmt.Errorf("failed to create overlay file: %w", err)
			}
			defer func() { _ = f.Close() }()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("failed to encode overlay: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Overlay written to %s\n", overlayPath)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleCmd.Flags().Bool("run", false, "run the extraction pipeline on the sample")
	sampleCmd.Flags().StringP("format", "f", "text", "output format when --run is set (text, json, csv)")
	sampleCmd.Flags().String("overlay", "", "write the annotated sample page to this PNG file")
}
