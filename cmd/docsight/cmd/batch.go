package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsight/docsight/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process directories of DocTags files in parallel",
	Long: `Process files and directories of DocTags documents with a worker pool.

Examples:
  docsight batch reports/
  docsight batch reports/ --recursive --workers 8
  docsight batch reports/ --format json --output results.json
  docsight batch reports/ --overlay-dir overlays/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input paths provided")
		}

		cfg := GetConfig()

		workers, _ := cmd.Flags().GetInt("workers")
		recursive, _ := cmd.Flags().GetBool("recursive")
		include, _ := cmd.Flags().GetStringSlice("include")
		exclude, _ := cmd.Flags().GetStringSlice("exclude")
		format, _ := cmd.Flags().GetString("format")
		outputFile, _ := cmd.Flags().GetString("output")
		overlayDir, _ := cmd.Flags().GetString("overlay-dir")

		builder := cfg.PipelineBuilder()
		if err := builder.Validate(); err != nil {
			return fmt.Errorf("invalid pipeline configuration: %w", err)
		}

		bCfg := batch.DefaultConfig()
		bCfg.Pipeline = builder.Config()
		bCfg.Workers = workers
		bCfg.Recursive = recursive
		if len(include) > 0 {
			bCfg.IncludePatterns = include
		}
		bCfg.ExcludePatterns = exclude
		bCfg.OverlayDir = overlayDir

		result, err := batch.ProcessBatch(args, bCfg)
		if err != nil {
			return err
		}

		var out string
		switch format {
		case outputFormatJSON:
			out, err = batch.ToJSON(result)
			if err != nil {
				return err
			}
			out += "\n"
		case outputFormatCSV:
			out = batch.ToCSV(result)
		case outputFormatText:
			out = batch.Summarize(result)
		default:
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, csv)", format)
		}

		if outputFile != "" {
			if err := os.WriteFile(outputFile, []byte(out), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile)
		} else {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), out)
		}

		if result.Failed() > 0 {
			return fmt.Errorf("%d file(s) failed", result.Failed())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 4, "number of parallel workers")
	batchCmd.Flags().BoolP("recursive", "r", false, "recurse into subdirectories")
	batchCmd.Flags().StringSlice("include", nil, "glob patterns of files to include (default *.doctags, *.xml)")
	batchCmd.Flags().StringSlice("exclude", nil, "glob patterns of files to exclude")
	batchCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	batchCmd.Flags().StringP("output", "o", "", "write results to file instead of stdout")
	batchCmd.Flags().String("overlay-dir", "", "write annotated page PNGs to this directory")
}
