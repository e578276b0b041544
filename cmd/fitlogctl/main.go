// Command fitlogctl performs operator tasks that have no HTTP endpoint:
// hashing a password for seed data and promoting an account to admin.
//
// Usage:
//
//	fitlogctl hash-password < password.txt
//	fitlogctl promote user@example.com
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/fitlog-api/internal/config"
	"github.com/phrazzld/fitlog-api/internal/domain"
	"github.com/phrazzld/fitlog-api/internal/platform/logger"
	"github.com/phrazzld/fitlog-api/internal/platform/postgres"
	"github.com/phrazzld/fitlog-api/internal/service/auth"
	"github.com/phrazzld/fitlog-api/internal/store"
)

var errUsage = errors.New("usage: fitlogctl <hash-password|promote> [args]")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "fitlogctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "hash-password":
		fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
		argonTime := fs.Uint("time", 3, "argon2id iterations")
		memory := fs.Uint("memory-kib", 64*1024, "argon2id memory in KiB")
		threads := fs.Uint("threads", 1, "argon2id parallelism")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		hasher := auth.NewArgon2idHasher(config.Argon2Config{
			Time:      uint32(*argonTime),
			MemoryKiB: uint32(*memory),
			Threads:   uint8(*threads),
		})
		return hashPassword(hasher, stdin, stdout)

	case "promote":
		if len(args) != 2 {
			return errUsage
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		log, err := logger.Setup(cfg.Server)
		if err != nil {
			return fmt.Errorf("failed to set up logger: %w", err)
		}
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() { _ = db.Close() }()

		return promote(ctx, postgres.NewPostgresUserStore(db, log), args[1], stdout)

	default:
		return errUsage
	}
}

// hashPassword reads one line from in and writes its argon2id hash to out.
// The password is read from stdin so it never shows up in the process list.
func hashPassword(hasher auth.PasswordHasher, in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if err := domain.ValidatePassword(password); err != nil {
		return err
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

// promote grants the admin role to the account registered under email.
func promote(ctx context.Context, users store.UserStore, email string, out io.Writer) error {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("no account registered as %s", email)
		}
		return err
	}
	if user.IsAdmin() {
		_, err = fmt.Fprintf(out, "%s is already an admin\n", email)
		return err
	}

	user.Role = domain.RoleAdmin
	user.Touch()
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to promote %s: %w", email, err)
	}

	slog.Info("account promoted", slog.String("user_id", user.ID.String()))
	_, err = fmt.Fprintf(out, "%s is now an admin\n", email)
	return err
}
