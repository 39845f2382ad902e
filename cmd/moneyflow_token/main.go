// Command moneyflow_token mints a bearer token for a ledger owner, signed with
// the configured JWT_SECRET. Production tokens come from the identity provider;
// this is for local development and smoke tests.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/moneyflow/internal/platform/config"
	"github.com/SscSPs/moneyflow/internal/utils"
)

func main() {
	userID := flag.String("user", "", "user id placed in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction {
		slog.Error("Refusing to mint tokens in production")
		os.Exit(1)
	}

	token, err := utils.GenerateJWT(*userID, cfg.JWTSecret, *ttl, utils.TokenIssuer)
	if err != nil {
		slog.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(2)
	}
	fmt.Println(token)
}
