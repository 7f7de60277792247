package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/qguide/internal/export"
	"github.com/pfrederiksen/qguide/internal/logger"
	"github.com/pfrederiksen/qguide/internal/storage"
	"github.com/spf13/cobra"
)

var exportFlagKeys = map[string]string{
	"snapshot": "output_file",
}

var (
	flagReport       string
	flagExportFormat string
	flagExportOutput string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot as a CSV or XLSX report",
		Long: `Flatten an analytics snapshot into a report. The sections report has one
row per analyzed section; the courses report has one row per course, taken from
its latest semester.`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	cmd.Flags().String("snapshot", "", "Snapshot to read (default: configured output file)")
	cmd.Flags().StringVar(&flagReport, "report", string(export.KindSections), "Report: sections or courses")
	cmd.Flags().StringVar(&flagExportFormat, "format", string(export.FormatCSV), "Format: csv or xlsx")
	cmd.Flags().StringVarP(&flagExportOutput, "output", "o", "-", "Output file, - for stdout")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	cfg, err := loadConfig(cmd, exportFlagKeys)
	if err != nil {
		return err
	}
	log, err := setupLogger(cmd, cfg, logger.Fields{"command": "export"})
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	snapshot, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	table, err := export.Build(snapshot, export.Kind(strings.ToLower(flagReport)))
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if flagExportOutput != "" && flagExportOutput != "-" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}

	if err := export.Write(w, table, export.Format(strings.ToLower(flagExportFormat))); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	log.Info("Exported report", logger.Fields{
		"report": table.Name,
		"rows":   len(table.Rows),
		"output": flagExportOutput,
	})
	return nil
}
