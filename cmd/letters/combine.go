package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/pdf"
	"github.com/Totarae/ArrearsLetters/internal/storage"
)

var errNoInputs = errors.New("no valid pdf files to combine")

func combineCmd() *cobra.Command {
	var (
		folder, out, listFile string
		files                 []string
	)

	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Merge letters into one PDF for printing",
		Long: `Merge letters into one PDF. Inputs come from one of:
  --folder           every letter of an output folder
  --files            paths, repeated or as a JSON array
  --files-from-file  a text file with one path per line`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			var inputs []string
			switch {
			case folder != "":
				if err := storage.ValidScope(folder); err != nil {
					return err
				}
				dir := filepath.Join(a.cfg.OutputDir, folder)
				inputs, err = pdf.CollectPDFs(filepath.Join(dir, pdf.ProtectedDir))
				if err != nil {
					return fmt.Errorf("list letters: %w", err)
				}
				if out == "" {
					out = filepath.Join(dir, "combined_"+folder+".pdf")
				}
			case listFile != "":
				if inputs, err = readFileList(listFile); err != nil {
					return err
				}
			default:
				if inputs, err = parseFileArgs(files); err != nil {
					return err
				}
			}
			if out == "" {
				return errors.New("--output is required with --files or --files-from-file")
			}

			inputs = existingPDFs(inputs, a.logger)
			if len(inputs) == 0 {
				return errNoInputs
			}
			if err := pdf.Combine(inputs, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "combined %d letters into %s\n", len(inputs), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "output folder name")
	cmd.Flags().StringArrayVar(&files, "files", nil, "pdf path or JSON array of paths (repeatable)")
	cmd.Flags().StringVar(&listFile, "files-from-file", "", "text file listing one pdf path per line")
	cmd.Flags().StringVarP(&out, "output", "o", "", "merged file (default <folder>/combined_<folder>.pdf)")
	cmd.MarkFlagsMutuallyExclusive("folder", "files", "files-from-file")
	cmd.MarkFlagsOneRequired("folder", "files", "files-from-file")
	return cmd
}

// parseFileArgs раскрывает значения --files: JSON-массив или отдельный путь.
func parseFileArgs(values []string) ([]string, error) {
	var paths []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !strings.HasPrefix(v, "[") {
			if v != "" {
				paths = append(paths, v)
			}
			continue
		}
		var list []string
		if err := json.Unmarshal([]byte(v), &list); err != nil {
			return nil, fmt.Errorf("parse --files: %w", err)
		}
		paths = append(paths, list...)
	}
	return paths, nil
}

// readFileList читает пути по одному на строку; пустые строки и # пропускаются.
func readFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file list: %w", err)
	}
	defer f.Close()

	var paths []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file list: %w", err)
	}
	return paths, nil
}

// existingPDFs отбрасывает отсутствующие файлы с предупреждением.
func existingPDFs(paths []string, logger *zap.Logger) []string {
	var kept []string
	for _, p := range paths {
		if _, err := os.Stat(pdf.PreferUnprotected(p)); err != nil {
			logger.Warn("Skipping missing file", zap.String("file", p))
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
