package cmd

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsight/docsight/internal/doctags"
	"github.com/docsight/docsight/internal/pipeline"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract tables and key metrics from DocTags files",
	Long: `Process one or more DocTags files to extract tables, text blocks,
and key financial metrics.

Examples:
  docsight extract report.doctags
  docsight extract *.doctags --format json
  docsight extract report.doctags --format csv --output results.csv
  docsight extract report.doctags --overlay-dir overlays/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		// Get configuration (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		overlayDir := cfg.Output.OverlayDir
		if cmd.Flags().Changed("overlay-dir") {
			overlayDir, _ = cmd.Flags().GetString("overlay-dir")
		}
		labelColumn := cfg.Pipeline.Extract.LabelColumn
		if cmd.Flags().Changed("label-column") {
			labelColumn, _ = cmd.Flags().GetInt("label-column")
		}
		valueColumn := cfg.Pipeline.Extract.ValueColumn
		if cmd.Flags().Changed("value-column") {
			valueColumn, _ = cmd.Flags().GetInt("value-column")
		}

		validFormats := []string{outputFormatText, outputFormatJSON, outputFormatCSV}
		isValidFormat := false
		for _, f := range validFormats {
			if format == f {
				isValidFormat = true
				break
			}
		}
		if !isValidFormat {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
		}

		pl, err := pipeline.NewBuilder().
			WithRulesFile(cfg.Pipeline.Extract.RulesPath).
			WithLabelColumn(labelColumn).
			WithValueColumn(valueColumn).
			WithCanvasSize(cfg.Pipeline.Canvas.Width, cfg.Pipeline.Canvas.Height).
			Build()
		if err != nil {
			return fmt.Errorf("failed to build pipeline: %w", err)
		}

		var out strings.Builder
		for _, path := range args {
			data, err := os.ReadFile(path) //nolint:gosec // G304: CLI input path
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			res, err := pl.Process(string(data))
			if err != nil {
				var malformed *doctags.MalformedDocumentError
				if errors.As(err, &malformed) {
					return fmt.Errorf("malformed document %s: %w", path, err)
				}
				return fmt.Errorf("failed to process %s: %w", path, err)
			}

			if err := appendResult(&out, format, path, res, len(args) > 1); err != nil {
				return err
			}

			if overlayDir != "" {
				if err := writeOverlay(pl, res, overlayDir, path); err != nil {
					return err
				}
			}
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(out.String()), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
			return nil
		}

		_, _ = fmt.Fprint(cmd.OutOrStdout(), out.String())
		return nil
	},
}

// appendResult formats one pipeline result into the output buffer.
func appendResult(out *strings.Builder, format, path string, res *pipeline.Result, multi bool) error {
	switch format {
	case outputFormatJSON:
		out.WriteString(res.JSON)
		out.WriteString("\n")
	case outputFormatCSV:
		out.WriteString(res.CSV)
	default:
		if multi {
			out.WriteString(fmt.Sprintf("== %s ==\n", path))
		}
		out.WriteString(fmt.Sprintf("Tables: %d\n", len(res.Document.Tables)))
		out.WriteString(fmt.Sprintf("Text Blocks: %d\n", len(res.Document.TextBlocks)))
		out.WriteString(fmt.Sprintf("Key Metrics: %d\n", res.Metrics.Len()))
		for _, name := range res.Metrics.Names() {
			value, _ := res.Metrics.Get(name)
			out.WriteString(fmt.Sprintf("  %s: %s\n", name, value))
		}
	}
	return nil
}

// writeOverlay renders the annotated page for one result as a PNG.
func writeOverlay(pl *pipeline.Pipeline, res *pipeline.Result, dir, inputPath string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create overlay directory: %w", err)
	}

	img := pl.Overlay(res, 0)
	if img == nil {
		return errors.New("overlay rendering failed")
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(dir, base+"_overlay.png")

	f, err := os.Create(outPath) //nolint:gosec // G304: derived from CLI input path
	if err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode overlay: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	extractCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	extractCmd.Flags().String("overlay-dir", "", "write annotated page PNGs to this directory")
	extractCmd.Flags().Int("label-column", 0, "table column holding metric labels")
	extractCmd.Flags().Int("value-column", 1, "table column holding metric values (-1 scans right to left)")
}
