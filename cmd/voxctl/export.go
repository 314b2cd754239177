package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codebuildervaibhav/voxscribe/internal/export"
)

var (
	exportFilename string
	exportDir      string
)

var exportCmd = &cobra.Command{
	Use:   "export <transcript.txt>",
	Short: "Export a transcript as PDF (plain text if PDF generation fails)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFilename, "filename", "", "document title and file name (default: input file name)")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "output directory")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	text, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read transcript: %w", err)
	}

	name := exportFilename
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	}

	exporter, err := newExporter()
	if err != nil {
		return err
	}

	doc, err := exporter.Export(cmd.Context(), export.Request{Text: string(text), Filename: name})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	outPath := filepath.Join(exportDir, doc.Filename())
	if err := os.WriteFile(outPath, doc.Body, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s, %d bytes)\n", outPath, doc.Format, len(doc.Body))
	return nil
}

func newExporter() (*export.Exporter, error) {
	font, err := export.ResolveFont(cfg.Export.FontPath, cfg.Export.FontFamily)
	if err != nil {
		log.Printf("WARNING: %v - using built-in font", err)
		font = export.DefaultFont()
	}
	renderer, err := export.NewRenderer(cfg.Export.Renderer, font, cfg.Export.ChromePath, cfg.Export.ChromeTimeout())
	if err != nil {
		return nil, err
	}
	return export.NewExporter(renderer), nil
}
