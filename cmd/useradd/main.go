// Command useradd creates a user record in the record store. The password is
// stored as the same digest the API compares against at login.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode"

	"github.com/rentalhub/rental-api/internal/core/domain"
	mongostore "github.com/rentalhub/rental-api/internal/infrastructure/db/mongo"
	"github.com/rentalhub/rental-api/internal/pkg/config"
	"github.com/rentalhub/rental-api/internal/pkg/credentials"
	"github.com/rentalhub/rental-api/pkg/logger"
)

func main() {
	username := flag.String("username", "", "login name (required)")
	password := flag.String("password", "", "plaintext password (required)")
	displayName := flag.String("display-name", "", "name shown in the UI")
	roles := flag.String("roles", string(domain.RoleUser), "comma separated roles, e.g. ADMIN,USER")
	flag.Parse()

	if err := run(*username, *password, *displayName, *roles); err != nil {
		fmt.Fprintf(os.Stderr, "useradd: %v\n", err)
		os.Exit(1)
	}
}

func run(username, password, displayName, rawRoles string) error {
	if username == "" || password == "" {
		flag.Usage()
		return errors.New("username and password are required")
	}

	roles := domain.NewRoles(strings.FieldsFunc(rawRoles, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})...)
	for _, r := range roles {
		if !r.Known() {
			return fmt.Errorf("unknown role %q", r)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadTool(ctx)
	if err != nil {
		return err
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "useradd"})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "useradd",
	})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongostore.NewUserRepository(mongostore.NewRecordStore(db))
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	if cfg.PasswordPepper == "" {
		log.Warn().Msg("PASSWORD_PEPPER is empty, password stored verbatim")
	}

	identity, err := users.Create(ctx, domain.NewUser{
		Username:       username,
		PasswordDigest: credentials.NewDigester(cfg.PasswordPepper).Digest(password),
		DisplayName:    displayName,
		Roles:          roles,
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("id", identity.ID).
		Str("username", identity.Username).
		Strs("roles", roleStrings(identity.Roles)).
		Msg("user created")
	return nil
}

func roleStrings(roles domain.Roles) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
