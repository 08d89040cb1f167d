package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VictorCaricatte/panvita/internal/genbank"
)

func newExtractCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "extract <genbank-file>...",
		Short: "Extract protein FASTA and gene coordinates from GenBank files",
		Long: `Extract CDS translations into per-genome .faa files and gene
coordinates into tab-separated position files. Gzipped inputs are
read transparently.`,
		Example: `  panvita extract genomes/*.gbk
  panvita extract -o extracted strain1.gbff.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args, outDir)
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	return cmd
}

func runExtract(paths []string, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, path := range paths {
		if err := extractOne(path, outDir); err != nil {
			return err
		}
	}
	return nil
}

func extractOne(path, outDir string) error {
	lines, err := genbank.ReadLines(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	base := genomeName(path)
	proteins := genbank.ExtractProteins(lines)
	coords := genbank.ExtractCoordinates(lines)

	faaPath := filepath.Join(outDir, base+".faa")
	faa, err := os.Create(faaPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", faaPath, err)
	}
	defer faa.Close()
	if err := genbank.WriteFASTA(faa, proteins); err != nil {
		return fmt.Errorf("write %s: %w", faaPath, err)
	}

	posPath := filepath.Join(outDir, base+"_positions.tsv")
	pos, err := os.Create(posPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", posPath, err)
	}
	defer pos.Close()
	if _, err := fmt.Fprintln(pos, "locus_tag\tstart\tend"); err != nil {
		return err
	}
	for _, c := range coords {
		if _, err := fmt.Fprintf(pos, "%s\t%d\t%d\n", c.LocusTag, c.Start, c.End); err != nil {
			return err
		}
	}

	logger.Info("extracted genome",
		zap.String("genome", base),
		zap.Int("proteins", len(proteins)),
		zap.Int("coordinates", len(coords)))
	return nil
}

// genomeName derives the genome label from a file path: base name with
// the compression suffix and one extension stripped.
func genomeName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
