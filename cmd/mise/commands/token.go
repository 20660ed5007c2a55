package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alimon-app/mise/internal/api"
)

var (
	tokenUser string
	tokenName string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API access token signed with JWT_SECRET",
	Long: `Issue a bearer token for the HTTP API. Without --user a new user ID is
generated; the user record is created on the first authenticated request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setup()
		if err != nil {
			return err
		}
		if err := cfg.RequireJWTSecret(); err != nil {
			return err
		}

		userID := uuid.New()
		if tokenUser != "" {
			if userID, err = uuid.Parse(tokenUser); err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
		}

		token, err := api.NewAuthenticator(cfg.JWTSecret).Issue(userID, tokenName, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "user: %s\n", userID)
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User ID (UUID) to issue the token for")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Display name claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
