// Command seed-user creates a user directly against the database, or logs in
// if the email is already registered, and prints an auth token for it.
//
//	go run scripts/seed-user.go -email dev@example.com -password secret123
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hpnchanel/todoapi/internal/auth"
	"github.com/hpnchanel/todoapi/internal/metrics"
	"github.com/hpnchanel/todoapi/internal/repository"
	"github.com/hpnchanel/todoapi/internal/service"
)

type output struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Token  string `json:"token"`
	Header string `json:"header"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Token signing secret; must match the server")
		email       = flag.String("email", "dev@example.com", "User email")
		password    = flag.String("password", "", "User password (at least 6 characters)")
		migrate     = flag.Bool("migrate", false, "Apply migrations before seeding")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fail("DATABASE_URL is required")
	}
	if *password == "" {
		fail("-password is required")
	}

	tokens, err := auth.NewTokenService(*jwtSecret)
	if err != nil {
		fail("token service:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fail("connect database:", err)
	}
	defer repo.Close()

	if *migrate {
		if err := repo.Migrate(ctx); err != nil {
			fail("migrate:", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	users := service.NewUserService(repo, nil, auth.NewHasher(auth.DefaultArgon2Params), tokens, logger, metrics.NewNoop())

	user, token, err := users.Signup(ctx, *email, *password)
	if errors.Is(err, service.ErrDuplicate) {
		user, token, err = users.Login(ctx, *email, *password)
	}
	if err != nil {
		fail("seed user:", err)
	}

	out := output{
		UserID: user.ID,
		Email:  user.Email,
		Token:  token,
		Header: "x-auth",
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.Token)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fail("invalid format; use plain or json")
	}
}

func fail(args ...any) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
