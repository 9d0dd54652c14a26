package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prohire/resume-screener/internal/middleware"
)

var tokenCmd = &cobra.Command{
	Use:   "token RECRUITER",
	Short: "Issue a bearer token for a recruiter",
	Long:  "Issue an HS256 bearer token whose subject is the recruiter name, signed with JWT_SECRET.",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().String("secret", "", "Signing secret (overrides JWT_SECRET)")
	tokenCmd.Flags().Duration("ttl", 0, "Token lifetime (overrides TOKEN_TTL)")
	mustBind(settings.BindPFlag("JWT_SECRET", tokenCmd.Flags().Lookup("secret")))
	mustBind(settings.BindPFlag("TOKEN_TTL", tokenCmd.Flags().Lookup("ttl")))

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("signing secret is required (set JWT_SECRET environment variable or use --secret flag)")
	}

	token, err := middleware.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).IssueToken(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
