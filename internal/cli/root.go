package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"document-tutor/internal/config"
	"document-tutor/internal/helper"
)

const defaultConfigPath = "./configs/config.yaml"

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Answer questions about a document collection with page citations",
	Long: `tutor indexes paginated documents into a local vector database and answers
questions using only the retrieved passages, citing [document, page].

Example usage:
  tutor ingest              # Build the index from documents.dir
  tutor chat                # Ask questions interactively`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return helper.SetupLogger(cfg.Logging.Level, os.Stderr)
	},
}

// ExecuteContext runs the root command; ctx is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultConfigPath, "config file")
	rootCmd.AddCommand(ingestCmd, chatCmd)
}
