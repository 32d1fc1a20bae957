package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/batch"
	"github.com/Totarae/ArrearsLetters/internal/pdf"
	"github.com/Totarae/ArrearsLetters/internal/sheet"
	"github.com/Totarae/ArrearsLetters/internal/storage"
)

func generateCmd() *cobra.Command {
	var input, folder, tmpl string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate protected and unprotected arrears letters from a spreadsheet",
		Long: `Generate one PDF letter per spreadsheet row, each with a payment QR code.

Letters are written to <output-dir>/<folder>/protected (encrypted with the
customer NIC) and <output-dir>/<folder>/unprotected. The spreadsheet is copied
next to them as <folder>_source.xlsx for a later sms-links run.

Examples:
  letters generate --input arrears.xlsx --folder august_sph --template SPH
  letters generate -i motor.xlsx -f motor_0825 -t Motor --fallback-date 2025-08-29`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, input, folder, tmpl)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "arrears spreadsheet (.xlsx)")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "output folder name")
	cmd.Flags().StringVarP(&tmpl, "template", "t", "", "letter template (SPH, JPH, MED_SPH, Motor, ...)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

func runGenerate(cmd *cobra.Command, input, folder, tmplName string) error {
	if err := storage.ValidScope(folder); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	table, err := sheet.Open(input)
	if err != nil {
		return &batch.SetupError{Msg: "read spreadsheet", Err: err}
	}
	styles := pdf.DefaultStyles()
	styles.FontDir = a.cfg.FontDir
	renderer, err := pdf.NewRenderer(styles)
	if err != nil {
		return &batch.SetupError{Msg: "load fonts", Err: err}
	}
	fallback, err := a.cfg.FallbackLetterDate()
	if err != nil {
		return err
	}

	out := filepath.Join(a.cfg.OutputDir, folder)
	g := &batch.Generator{
		Coder:        a.coder(),
		Renderer:     renderer,
		Template:     a.template(tmplName),
		OutputDir:    out,
		FallbackDate: fallback,
		Logger:       a.logger.With(zap.String("folder", folder)),
	}
	sum, err := g.Run(cmd.Context(), table)
	if err != nil {
		return err
	}
	sum.Log(a.logger)

	if err := copyFile(input, filepath.Join(out, folder+"_source.xlsx")); err != nil {
		a.logger.Warn("Could not keep a copy of the spreadsheet", zap.Error(err))
	}
	a.notify(cmd.Context(), fmt.Sprintf("Arrears letters ready: %s", folder), sum)
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d of %d letters in %s (%d skipped)\n",
		sum.Generated, sum.Total, out, len(sum.Skipped))
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
