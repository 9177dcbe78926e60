package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/omr-service/internal/imaging"
	"github.com/ironsheep/omr-service/internal/omr"
)

type scanOptions struct {
	questions   int
	annotateDir string
	workers     int
}

// sheetResult is one line of the scan report.
type sheetResult struct {
	File string `json:"file"`

	*omr.Summary

	Annotated string `json:"annotated,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newScanCommand(root *rootOptions) *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <image>...",
		Short: "Grade sheet image files and print the answers as JSON",
		Long: "Grade sheet image files and print a JSON array with one entry per file, in argument order.\n" +
			"Sheets are scanned concurrently. A file that cannot be read is reported with an error entry\n" +
			"and makes the command exit non-zero after all files are done.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := root.params()
			if err != nil {
				return err
			}

			scanner, err := omr.NewScanner(params)
			if err != nil {
				return err
			}
			if opts.questions > scanner.MaxQuestions() {
				return fmt.Errorf("--questions must not exceed %d", scanner.MaxQuestions())
			}

			if opts.annotateDir != "" {
				if err := os.MkdirAll(opts.annotateDir, 0755); err != nil {
					return fmt.Errorf("failed to create annotate dir: %w", err)
				}
			}

			results := scanFiles(scanner, args, opts, root.log)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sheets failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.questions, "questions", "n", omr.DefaultQuestions, "number of questions per sheet")
	cmd.Flags().StringVar(&opts.annotateDir, "annotate-dir", "", "write an annotated PNG per sheet into this directory")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", runtime.NumCPU(), "sheets scanned in parallel")

	return cmd
}

// scanFiles grades every file with a bounded worker pool. Per-file failures
// are recorded in the result instead of stopping the batch.
func scanFiles(scanner *omr.Scanner, files []string, opts *scanOptions, log *zap.Logger) []sheetResult {
	results := make([]sheetResult, len(files))

	var g errgroup.Group
	if opts.workers > 0 {
		g.SetLimit(opts.workers)
	}

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			started := time.Now()
			results[i] = scanFile(scanner, file, opts)

			if results[i].Error != "" {
				log.Warn("sheet failed", zap.String("file", file), zap.String("error", results[i].Error))
			} else {
				log.Info("sheet scanned",
					zap.String("file", file),
					zap.Int("bubbles", results[i].TotalBubbles),
					zap.Int("rows", results[i].TotalRows),
					zap.Duration("elapsed", time.Since(started)))
			}
			return nil
		})
	}

	g.Wait()
	return results
}

func scanFile(scanner *omr.Scanner, file string, opts *scanOptions) sheetResult {
	result := sheetResult{File: file}

	img, err := imaging.LoadFile(file)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	summary, err := scanner.Scan(img, opts.questions)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Summary = summary

	if opts.annotateDir != "" {
		out, err := writeAnnotated(summary, img, file, opts.annotateDir)
		if err != nil {
			result.Error = err.Error()
			return result
		}
		result.Annotated = out
	}

	return result
}

func writeAnnotated(summary *omr.Summary, img image.Image, file, dir string) (string, error) {
	overlay, err := summary.Annotate(img, 0)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(overlay.ImageBase64)
	if err != nil {
		return "", fmt.Errorf("failed to decode overlay: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".annotated.png"
	out := filepath.Join(dir, name)
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write overlay: %w", err)
	}
	return out, nil
}
