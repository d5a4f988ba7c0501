package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SAP-F-2025/question-extractor/internal/classifier"
	"github.com/SAP-F-2025/question-extractor/internal/models"
	"github.com/SAP-F-2025/question-extractor/internal/source"
	"github.com/spf13/cobra"
)

var (
	strategyFlag string
	formatFlag   string
	outDir       string
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Print the classified fragments of a text document as JSON",
	Long: `Reads a plain text document, pages separated by form feeds, and prints
every fragment with its role. Blank pages yield no fragments.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a text document into an exported question set",
	Long: `Classifies a plain text document, assembles every complete question in
document order and writes questions.json (or CSV/XLSX) to the output
directory. Incomplete questions are reported and left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	for _, cmd := range []*cobra.Command{classifyCmd, convertCmd} {
		cmd.Flags().StringVarP(&strategyFlag, "strategy", "s", "", "Classifier strategy: block or line (default from config)")
	}
	convertCmd.Flags().StringVarP(&formatFlag, "format", "f", string(models.ExportJSON), "Export format: json, csv or xlsx")
	convertCmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
}

func extractFile(ctx context.Context, app *application, path string) (*models.ExtractionResult, error) {
	var strategy classifier.Strategy
	if strategyFlag != "" {
		parsed, err := classifier.ParseStrategy(strategyFlag)
		if err != nil {
			return nil, err
		}
		strategy = parsed
	}

	doc, err := source.OpenTextFile(path)
	if err != nil {
		return nil, err
	}
	return app.extraction.Extract(ctx, filepath.Base(path), doc, strategy)
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := extractFile(ctx, app, args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app, err := newApplication(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := extractFile(ctx, app, args[0])
	if err != nil {
		return err
	}

	session, err := app.sessions.Create(ctx)
	if err != nil {
		return err
	}
	report, err := app.sessions.Autofill(ctx, session.ID, result.Fragments)
	if err != nil {
		return err
	}

	artifact, err := app.sessions.Export(ctx, session.ID, models.ExportFormat(formatFlag))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(outDir, artifact.Filename)
	if err := os.WriteFile(target, artifact.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}

	logger.Info("Conversion finished",
		"file", target,
		"pages", result.PageCount,
		"failed_pages", result.Failed,
		"no_text_pages", result.NoText,
		"questions", report.Committed,
		"incomplete", report.Discarded,
		"skipped_fragments", report.Skipped,
	)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d questions to %s\n", artifact.Count, target)
	return nil
}
