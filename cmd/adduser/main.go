// Command adduser creates a bucket list user from the command line.
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

	"github.com/phrazzld/bucketlist-api/internal/platform/sqlstore"
	"github.com/phrazzld/bucketlist-api/internal/service"
	"github.com/phrazzld/bucketlist-api/internal/service/auth"
	"github.com/phrazzld/bucketlist-api/internal/store"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(stderr)

	username := fs.String("user", "", "Username")
	passwordFlag := fs.String("password", "", "Password (optional, will prompt if omitted)")
	driver := fs.String("driver", envOr("BUCKETLIST_DATABASE_DRIVER", "postgres"), "Database driver: postgres or sqlite")
	dbURL := fs.String("db", os.Getenv("BUCKETLIST_DATABASE_URL"), "Database URL or SQLite path")
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	migrate := fs.Bool("migrate", false, "Apply pending migrations before creating the user")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" || *dbURL == "" {
		fmt.Fprintln(stdout, "Usage: adduser -user <username> -db <url> [-driver postgres|sqlite] [-password <password>]")
		fs.PrintDefaults()
		return errors.New("missing required flags: user, db")
	}

	password := *passwordFlag
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(stdout)
	}

	dialect, err := sqlstore.ParseDialect(*driver)
	if err != nil {
		return err
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := sqlstore.Open(ctx, dialect, *dbURL, sqlstore.Options{}, log)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if *migrate {
		if err := sqlstore.Migrate(ctx, db, dialect, sqlstore.MigrateUp, log); err != nil {
			return err
		}
	}

	users, err := service.NewUserService(
		sqlstore.NewUserStore(db, dialect, *cost, log),
		auth.NewBcryptVerifier(),
		db,
		*cost,
		log,
	)
	if err != nil {
		return err
	}

	user, err := users.Register(ctx, *username, password)
	switch {
	case errors.Is(err, store.ErrUsernameExists):
		return fmt.Errorf("user %s already exists", *username)
	case err != nil:
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Username, user.ID)
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Pipes and tests.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
