package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Totarae/ArrearsLetters/internal/auth"
)

func tokenCmd() *cobra.Command {
	var operator string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an operator token for the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			if a.cfg.AuthSecret == "" {
				return errors.New("AUTH_SECRET is not set")
			}

			svc := auth.New(a.cfg.AuthSecret)
			id, token := svc.IssueToken()
			if operator != "" {
				id, token = operator, svc.Token(operator)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "operator: %s\ntoken: %s\n", id, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator id (default: new uuid)")
	cmd.Flags().String("secret", "", "signing secret (AUTH_SECRET)")
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		_ = viper.BindPFlag("AUTH_SECRET", cmd.Flags().Lookup("secret"))
	}
	return cmd
}
