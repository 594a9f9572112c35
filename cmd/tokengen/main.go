// Command tokengen mints a bearer token for local development and manual
// testing against a server sharing the same signing secret.
//
// Usage:
//
//	TASKPILOT_AUTH_JWT_SECRET=... go run ./cmd/tokengen -user user_123 [-email a@b.c] [-lifetime 120]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/taskpilot-api/internal/config"
	"github.com/phrazzld/taskpilot-api/internal/service/auth"
	"github.com/spf13/viper"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tokengen: %v\n", err)
		os.Exit(1)
	}
}

// authSettings reads the auth section from the same environment variables the server uses.
func authSettings() config.AuthConfig {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("auth.token_lifetime_minutes", 60)

	return config.AuthConfig{
		JWTSecret:            v.GetString("auth.jwt_secret"),
		TokenLifetimeMinutes: v.GetInt("auth.token_lifetime_minutes"),
	}
}

func run(args []string, out io.Writer) error {
	defaults := authSettings()

	fs := flag.NewFlagSet("tokengen", flag.ContinueOnError)
	fs.SetOutput(out)
	userID := fs.String("user", "", "user id to place in the token subject (required)")
	email := fs.String("email", "", "optional email claim")
	secret := fs.String("secret", defaults.JWTSecret, "signing secret (default from TASKPILOT_AUTH_JWT_SECRET)")
	lifetime := fs.Int("lifetime", defaults.TokenLifetimeMinutes, "token lifetime in minutes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *userID == "" {
		return errors.New("-user is required")
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            *secret,
		TokenLifetimeMinutes: *lifetime,
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(context.Background(), *userID, *email)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
