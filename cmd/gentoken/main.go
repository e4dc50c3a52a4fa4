// Command gentoken mints an API token naming a user as the caller. It is a
// development aid for exercising createEvent without a login flow.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/isdelr/event-graph-be/internal/auth"
	"github.com/spf13/cobra"
)

var (
	userID string
	secret string
	issuer string
	expiry time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "gentoken",
	Short: "Mint a bearer token for a user id",
	Long: `Mint a signed bearer token for the events API.

The secret and issuer default to JWT_SECRET and JWT_ISSUER so the token
matches a server started from the same environment.

Examples:
  gentoken --user 65f1c0ffee0000000000abcd
  gentoken --user 65f1c0ffee0000000000abcd --expiry 24h`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userID == "" {
			return errors.New("--user is required")
		}
		if secret == "" {
			return errors.New("no signing secret: set JWT_SECRET or pass --secret")
		}

		token, err := auth.NewManager(secret, issuer, expiry).Generate(userID)
		if err != nil {
			return fmt.Errorf("generate token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&userID, "user", "", "User id to put in the token")
	rootCmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "HMAC signing secret")
	rootCmd.Flags().StringVar(&issuer, "issuer", envOr("JWT_ISSUER", "events-api"), "Token issuer")
	rootCmd.Flags().DurationVar(&expiry, "expiry", time.Hour, "Token lifetime")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
