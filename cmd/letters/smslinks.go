package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Totarae/ArrearsLetters/internal/batch"
	"github.com/Totarae/ArrearsLetters/internal/pdf"
	"github.com/Totarae/ArrearsLetters/internal/service"
	"github.com/Totarae/ArrearsLetters/internal/sheet"
	"github.com/Totarae/ArrearsLetters/internal/storage"
	"github.com/Totarae/ArrearsLetters/internal/util"
)

func smsLinksCmd() *cobra.Command {
	var input, folder, tmpl string

	cmd := &cobra.Command{
		Use:   "sms-links",
		Short: "Publish letters online and export the SMS batch for a generated folder",
		Long: `Replace the letter records and short links of a folder with a fresh set.

Each row with a policy and mobile number gets a letter record viewable at
<base-url>/letter/<id>, a short link to it, and a line in
<letters-dir>/<folder>/sms_batch.csv and sms_batch.xlsx.

Examples:
  letters sms-links --folder august_sph --template SPH
  letters sms-links -f august_sph -t SPH -i arrears.xlsx --base-url https://letters.nicl.mu`,
		PreRun: func(cmd *cobra.Command, _ []string) {
			bind(cmd, map[string]string{"BASE_URL": "base-url"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSMSLinks(cmd, input, folder, tmpl)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "spreadsheet; defaults to the copy kept by generate")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "output folder name")
	cmd.Flags().StringVarP(&tmpl, "template", "t", "", "letter template")
	cmd.Flags().String("base-url", "", "public address of the letter viewer (BASE_URL)")
	_ = cmd.MarkFlagRequired("folder")
	return cmd
}

// findSource ищет таблицу: явный путь, копия generate, любой xlsx в папке.
func findSource(input, outputDir, folder string) (string, error) {
	if input != "" {
		return input, nil
	}
	dir := filepath.Join(outputDir, folder)
	candidates := []string{filepath.Join(dir, folder+"_source.xlsx")}
	if more, err := filepath.Glob(filepath.Join(dir, "*.xlsx")); err == nil {
		candidates = append(candidates, more...)
	}
	candidates = append(candidates, folder+"_source.xlsx", folder+".xlsx")
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("no spreadsheet found for folder %q", folder)
}

func runSMSLinks(cmd *cobra.Command, input, folder, tmplName string) error {
	if err := storage.ValidScope(folder); err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()

	if !hasLetters(a.cfg.OutputDir, folder) {
		return &batch.SetupError{Msg: fmt.Sprintf("no generated letters in %s, run generate first", filepath.Join(a.cfg.OutputDir, folder))}
	}
	source, err := findSource(input, a.cfg.OutputDir, folder)
	if err != nil {
		return &batch.SetupError{Msg: "locate spreadsheet", Err: err}
	}
	table, err := sheet.Open(source)
	if err != nil {
		return &batch.SetupError{Msg: "read spreadsheet", Err: err}
	}
	a.logger.Info("Using spreadsheet", zap.String("file", source), zap.Int("rows", table.Len()))

	backends, err := service.OpenBackends(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, backends.Close)
	fallback, err := a.cfg.FallbackLetterDate()
	if err != nil {
		return err
	}

	linker := &batch.SMSLinker{
		Coder:        a.coder(),
		Letters:      service.NewLetterService(backends.Letters, a.logger, a.cfg.LinkTTL, a.cfg.LetterMaxAccess),
		Links:        service.NewLinkService(backends.Links, util.NewIDGenerator(a.cfg.ShortIDAlphabet), a.logger, a.cfg.ShortBaseURL, a.cfg.LinkTTL),
		Locker:       a.locker(),
		BaseURL:      a.cfg.BaseURL,
		LettersDir:   a.cfg.LettersDir,
		Template:     a.template(tmplName),
		FallbackDate: fallback,
		Logger:       a.logger.With(zap.String("folder", folder)),
	}
	sum, err := linker.Run(ctx, folder, table)
	if sum != nil {
		sum.Log(a.logger)
	}
	if err != nil {
		return err
	}

	a.notify(ctx, fmt.Sprintf("SMS batch ready: %s", folder), sum)
	fmt.Fprintf(cmd.OutOrStdout(), "%d SMS links ready in %s (%d skipped)\n",
		sum.Generated, filepath.Join(a.cfg.LettersDir, folder, batch.SMSBatchCSV), len(sum.Skipped))
	return nil
}

func hasLetters(outputDir, folder string) bool {
	for _, dir := range []string{pdf.ProtectedDir, pdf.UnprotectedDir} {
		if info, err := os.Stat(filepath.Join(outputDir, folder, dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
