package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/internal/validation"
	"github.com/mmastrac/reedsolomon-ecc/pkg/rsecc"
	"github.com/mmastrac/reedsolomon-ecc/pkg/symbols"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// pages handed to the encoder per progress update
const batchPages = 256

// EncodeFileResult is the machine-readable output of encode-file
type EncodeFileResult struct {
	Input          string   `json:"input"`
	Pages          int      `json:"pages"`
	PageBytes      int      `json:"page_bytes"`
	ParityBytes    int      `json:"parity_bytes"`
	Output         string   `json:"output,omitempty"`
	Parity         []string `json:"parity,omitempty"`
	PaddedLastPage bool     `json:"padded_last_page"`
}

// splitPages cuts data into k-byte messages; the last page is padded with pad
func splitPages(data []byte, k int, pad byte) ([][]int, bool) {
	count := (len(data) + k - 1) / k
	pages := make([][]int, 0, count)
	padded := false

	for off := 0; off < len(data); off += k {
		end := min(off+k, len(data))
		page := symbols.FromBytes(data[off:end])
		for len(page) < k {
			page = append(page, int(pad))
			padded = true
		}
		pages = append(pages, page)
	}
	return pages, padded
}

// encodePages runs the batch encoder in chunks so progress can be reported
func encodePages(ctx context.Context, enc *rsecc.Encoder, pages [][]int, workers int, progress func(int)) ([][]byte, error) {
	out := make([][]byte, 0, len(pages))

	for start := 0; start < len(pages); start += batchPages {
		end := min(start+batchPages, len(pages))

		parities, err := enc.EncodeBatch(ctx, pages[start:end], workers)
		if err != nil {
			return nil, fmt.Errorf("pages %d-%d: %w", start, end-1, err)
		}

		for _, parity := range parities {
			packed, err := symbols.Pack(parity, enc.SymbolWidth())
			if err != nil {
				return nil, err
			}
			out = append(out, packed)
		}

		if progress != nil {
			progress(end - start)
		}
	}

	return out, nil
}

func NewEncodeFileCommand() *cobra.Command {
	var (
		encOpts    encoderOptions
		outputFile string
		workers    int
		pad        int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "encode-file [input]",
		Short: "Compute parity for every page of a file",
		Long: `Split a file into pages of k bytes and compute packed parity for each page.
The last page is padded with --pad. Pages are encoded concurrently.

With --output the packed parity of all pages is written back to back,
otherwise one hex line per page is printed.

Examples:
  rsecc encode-file flash.img --output flash.ecc
  rsecc encode-file flash.img --pad 0xff --workers 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateWorkers(workers); err != nil {
				return err
			}
			if pad < 0 || pad > 0xff {
				return fmt.Errorf("pad must be a byte value (got %d)", pad)
			}

			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = m.Config().Defaults.Workers
			}

			enc, err := encOpts.encoder(m)
			if err != nil {
				return err
			}
			if enc.SymbolWidth() < 8 {
				return fmt.Errorf("encode-file needs symbols of at least 8 bits to hold a byte (got %d)", enc.SymbolWidth())
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			if len(data) == 0 {
				return fmt.Errorf("input file is empty")
			}

			pages, padded := splitPages(data, enc.MessageSymbols(), byte(pad))
			slog.Debug("Encoding file",
				"input", args[0],
				"pages", len(pages),
				"workers", workers,
				"encoder", enc.String())

			var progress func(int)
			if m.Config().UI.ProgressBar && !noProgress && !jsonOutput(cmd) && isTerminal(os.Stderr) {
				bar := progressbar.NewOptions(len(pages),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionSetDescription("encoding pages"),
					progressbar.OptionShowCount(),
				)
				defer bar.Finish()
				progress = func(n int) { bar.Add(n) }
			}

			parities, err := encodePages(cmd.Context(), enc, pages, workers, progress)
			if err != nil {
				return err
			}

			result := EncodeFileResult{
				Input:          args[0],
				Pages:          len(pages),
				PageBytes:      enc.MessageSymbols(),
				ParityBytes:    symbols.PackedLen(enc.ParitySymbols(), enc.SymbolWidth()),
				Output:         outputFile,
				PaddedLastPage: padded,
			}

			if outputFile != "" {
				if err := writeParityFile(outputFile, parities); err != nil {
					return err
				}
			} else {
				result.Parity = make([]string, len(parities))
				for i, p := range parities {
					result.Parity[i] = hex.EncodeToString(p)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, result)
			}

			for i, p := range result.Parity {
				fmt.Fprintf(out, "%6d  %s\n", i, p)
			}

			green := color.New(color.FgGreen)
			green.Fprintf(out, "Encoded %d pages of %d bytes with %s\n", result.Pages, result.PageBytes, enc)
			if outputFile != "" {
				fmt.Fprintf(out, "Wrote %d parity bytes to %s\n", result.Pages*result.ParityBytes, outputFile)
			}
			return nil
		},
	}

	encOpts.register(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write packed parity to this file")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent encoders (0 = one per CPU)")
	cmd.Flags().IntVar(&pad, "pad", 0, "Byte used to pad the last page")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func writeParityFile(path string, parities [][]byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}

	if err := writeAll(file, parities); err != nil {
		file.Close()
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

func writeAll(w io.Writer, chunks [][]byte) error {
	for _, chunk := range chunks {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
