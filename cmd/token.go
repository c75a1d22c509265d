package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"novelpack/internal/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token <caller>",
	Short: "Mint an API access token for a caller",
	Long:  `Sign a JWT with auth.jwt_secret so that <caller> can use the /api/v1 endpoints.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().Duration("expiry", 0, "token lifetime (default: auth.token_expiry)")
	tokenCmd.Flags().String("scope", "", "optional scope recorded in the token")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not configured (set NOVELPACK_AUTH_JWT_SECRET)")
	}

	expiry, _ := cmd.Flags().GetDuration("expiry")
	if expiry <= 0 {
		expiry = cfg.Auth.TokenExpiry
	}
	scope, _ := cmd.Flags().GetString("scope")

	j, err := jwt.NewJWT(cfg.Auth.JWTSecret, expiry)
	if err != nil {
		return err
	}
	token, err := j.GenerateToken(args[0], scope)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", time.Now().Add(j.GetExpiration()).Format(time.RFC3339))
	return nil
}
