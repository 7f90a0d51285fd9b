package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/wordiz/internal/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <learner>",
	Short: "Issue a bearer token for a learner",
	Long:  "Signs a token with WORDIZ_JWT_SECRET. Clients send it as WORDIZ_API_TOKEN.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
		if !issuer.Enabled() {
			return fmt.Errorf("WORDIZ_JWT_SECRET is not set")
		}
		tok, err := issuer.Issue(args[0])
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Println(tok)
		return nil
	},
}
