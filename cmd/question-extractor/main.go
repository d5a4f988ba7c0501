package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/question-extractor/internal/config"
	"github.com/SAP-F-2025/question-extractor/internal/utils"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "question-extractor",
	Short: "Turn quiz documents into structured multiple-choice questions",
	Long: `question-extractor classifies the text of quiz documents into questions,
options, answers and explanations, assembles them into four-option questions
and exports the result as questions.json, CSV or XLSX.

Run "serve" for the HTTP API or "convert" for a one-shot file conversion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = utils.NewLogger(os.Stderr, cfg.Environment, level)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout for one-shot commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(convertCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
