// Command letters runs the arrears batch jobs: PDF generation, SMS link
// generation, PDF merging and operator token issuing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "letters",
		Short:         "Arrears letters, payment QR codes and SMS letter links",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("output-dir", "", "root folder for generated letters (OUTPUT_DIR)")
	flags.String("letters-dir", "", "root folder for letter records (LETTERS_DIR)")
	flags.String("database-dsn", "", "PostgreSQL DSN (DATABASE_DSN)")
	flags.String("log-file", "", "rotate logs into this file (LOG_FILE)")
	flags.String("templates", "", "letter template catalogue (TEMPLATES_FILE)")
	flags.String("fallback-date", "", "letter date when the row has none (FALLBACK_LETTER_DATE)")
	flags.StringP("config", "c", "", "JSON config file (CONFIG)")
	bind(rootCmd, map[string]string{
		"OUTPUT_DIR":           "output-dir",
		"LETTERS_DIR":          "letters-dir",
		"DATABASE_DSN":         "database-dsn",
		"LOG_FILE":             "log-file",
		"TEMPLATES_FILE":       "templates",
		"FALLBACK_LETTER_DATE": "fallback-date",
		"CONFIG":               "config",
	})

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(smsLinksCmd())
	rootCmd.AddCommand(combineCmd())
	rootCmd.AddCommand(tokenCmd())
	return rootCmd
}

// bind привязывает флаги к ключам viper; флаг имеет приоритет над окружением.
func bind(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		f := cmd.PersistentFlags().Lookup(name)
		if f == nil {
			f = cmd.Flags().Lookup(name)
		}
		_ = viper.BindPFlag(key, f)
	}
}
