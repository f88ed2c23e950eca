package cmd

import (
	"fmt"

	"github.com/celosave/savings/internal/config"
	"github.com/celosave/savings/internal/service"
	"github.com/spf13/cobra"
)

func TokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <address>",
		Short: "Issue an API bearer token for a wallet address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTExpiry)

			token, expires, err := auth.GenerateJWT(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
