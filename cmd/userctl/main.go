// Package main is the userctl admin command. Identities are provisioned
// out-of-band rather than through a public signup endpoint, so creating
// users, rotating passwords, and inspecting accounts all happen here,
// directly against the database.
//
// Usage:
//
//	userctl create-user -username alice -email alice@example.com [-first Alice] [-last Smith]
//	userctl set-password -username alice
//	userctl show -username alice
//
// Passwords are read from stdin (or the PASSWORD env var if set, for
// scripted provisioning).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ogonek-app/backend/internal/auth"
	"github.com/ogonek-app/backend/internal/config"
	"github.com/ogonek-app/backend/internal/database"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	// Admin output goes to the terminal; keep logs quiet unless something breaks.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg, err := config.Load()
	if err != nil {
		fatal("loading config: %v", err)
	}

	db, err := database.NewMariaDB(cfg.Database)
	if err != nil {
		fatal("connecting to MariaDB: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		fatal("running migrations: %v", err)
	}

	// None of the admin operations touch sessions, so no Redis connection
	// and no session store are needed here.
	service := auth.NewAuthService(auth.NewUserRepository(db), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch os.Args[1] {
	case "create-user":
		createUser(ctx, service, os.Args[2:])
	case "set-password":
		setPassword(ctx, service, os.Args[2:])
	case "show":
		show(ctx, service, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func createUser(ctx context.Context, service auth.AuthService, args []string) {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	username := fs.String("username", "", "unique login name (required)")
	email := fs.String("email", "", "contact email")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	fs.Parse(args)

	if *username == "" {
		fatal("create-user: -username is required")
	}

	user, err := service.CreateUser(ctx, auth.CreateUserInput{
		Username:  *username,
		Password:  readPassword(),
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		fatal("creating user: %v", err)
	}

	fmt.Printf("created user %s (id %s)\n", user.Username, user.ID)
}

func setPassword(ctx context.Context, service auth.AuthService, args []string) {
	fs := flag.NewFlagSet("set-password", flag.ExitOnError)
	username := fs.String("username", "", "unique login name (required)")
	fs.Parse(args)

	if *username == "" {
		fatal("set-password: -username is required")
	}

	if err := service.SetPassword(ctx, *username, readPassword()); err != nil {
		fatal("setting password: %v", err)
	}

	fmt.Printf("password updated for %s\n", *username)
}

func show(ctx context.Context, service auth.AuthService, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	username := fs.String("username", "", "unique login name (required)")
	fs.Parse(args)

	if *username == "" {
		fatal("show: -username is required")
	}

	user, err := service.GetUser(ctx, *username)
	if err != nil {
		fatal("looking up user: %v", err)
	}

	fmt.Printf("id:         %s\n", user.ID)
	fmt.Printf("username:   %s\n", user.Username)
	fmt.Printf("email:      %s\n", user.Email)
	fmt.Printf("name:       %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("created:    %s\n", user.CreatedAt.Format(time.RFC3339))
	if user.LastLoginAt != nil {
		fmt.Printf("last login: %s\n", user.LastLoginAt.Format(time.RFC3339))
	} else {
		fmt.Printf("last login: never\n")
	}
}

// readPassword takes the password from the PASSWORD env var when set,
// otherwise prompts on stdin.
func readPassword() string {
	if p := os.Getenv("PASSWORD"); p != "" {
		return p
	}

	fmt.Fprint(os.Stderr, "password: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		fatal("reading password: %v", err)
	}
	return strings.TrimRight(line, "\r\n")
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: userctl <create-user|set-password|show> [flags]")
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
