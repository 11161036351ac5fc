// Command optoken prints an operator token for the guarded endpoints.
//
//	OPERATOR_JWT_SECRET=... go run ./cmd/optoken -sub alice -ttl 24h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"stock_insights/internal/app/config"
	jwtmw "stock_insights/internal/platform/jwt"
)

func main() {
	sub := flag.String("sub", "operator", "token subject")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	scopes := flag.String("scopes", jwtmw.ScopeCacheClear, "comma-separated scopes")
	flag.Parse()

	cfg, err := config.Load("")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	tok, err := jwtmw.NewGenerator(cfg.Operator.JWTSecret, *ttl).
		GenerateToken(*sub, strings.Split(*scopes, ",")...)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
