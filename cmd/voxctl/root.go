package main

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/codebuildervaibhav/voxscribe/internal/config"
)

var (
	configPath string
	quiet      bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "voxctl",
	Short: "Transcribe audio and export transcripts from the command line",
	Long: `voxctl runs the VoxScribe transcription and export pipeline locally,
using the same configuration file as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging()

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func setupLogging() {
	log.SetFlags(log.LstdFlags)
	if quiet {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
}
