package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codebuildervaibhav/voxscribe/internal/transcription"
	"github.com/codebuildervaibhav/voxscribe/internal/types"
)

var (
	transcribeLanguage string
	transcribeOutput   string
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <audio-file>",
	Short: "Transcribe an audio file with speaker labels",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", types.DefaultLanguage, "output language of the transcript")
	transcribeCmd.Flags().StringVarP(&transcribeOutput, "output", "o", "", "write the transcript to this file instead of stdout")

	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if !transcription.ValidateAudioFormat(inputPath) {
		return fmt.Errorf("unsupported audio format: %s", inputPath)
	}

	audio, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read audio: %w", err)
	}

	transcriber, err := transcription.NewGeminiTranscriber(transcription.Config{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		APIVersion: cfg.Gemini.APIVersion,
		Model:      cfg.Gemini.Model,
		Timeout:    cfg.Gemini.Timeout(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := transcriber.Transcribe(ctx, types.TranscriptionRequest{
		Audio:    audio,
		MIMEType: transcription.DetectMIMEType(inputPath, ""),
		Language: transcribeLanguage,
	})
	if err != nil {
		return err
	}

	if transcribeOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	}
	if err := os.WriteFile(transcribeOutput, []byte(result.Text+"\n"), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Transcript written to %s\n", transcribeOutput)
	return nil
}
