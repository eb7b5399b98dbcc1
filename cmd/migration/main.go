package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/riskibarqy/tournament-votes/db/migrations"
	"github.com/riskibarqy/tournament-votes/internal/platform/logging"
)

const defaultMigrationsTable = "tournament_votes_schema_migrations"

var errUsage = errors.New("usage")

// migrator is the part of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Force(version int) error
	Version() (version uint, dirty bool, err error)
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return 2
	}

	logger := logging.NewJSON(logging.ParseLevel(os.Getenv("APP_LOG_LEVEL"))).Named("migration")
	defer func() { _ = logger.Sync() }()

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		logger.Error("DB_URL is required")
		return 1
	}
	dbURL = withMigrationsTable(dbURL, os.Getenv("MIGRATIONS_TABLE"))

	m, source, err := newMigrator(dbURL, os.Getenv("MIGRATIONS_DIR"))
	if err != nil {
		logger.Error("create migrator", "error", err)
		return 1
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	logger = logger.With("command", args[0], "source", source)
	if err := runCommand(m, args, os.Stdout, logger); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			return 2
		}
		logger.Error("migration failed", "error", err)
		return 1
	}
	return 0
}

// newMigrator reads migrations from dir when set, else from the embedded
// schema.
func newMigrator(dbURL, dir string) (*migrate.Migrate, string, error) {
	dir = strings.TrimSpace(dir)
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, "", fmt.Errorf("resolve migrations dir %q: %w", dir, err)
		}
		sourceURL := "file://" + filepath.ToSlash(abs)
		m, err := migrate.New(sourceURL, dbURL)
		return m, sourceURL, err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, "", fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	return m, "embedded", err
}

func runCommand(m migrator, args []string, out io.Writer, logger *logging.Logger) error {
	cmd := strings.ToLower(strings.TrimSpace(args[0]))
	rest := args[1:]

	switch cmd {
	case "up":
		return settle(m.Up(), logger, "migrations applied")
	case "down":
		steps, err := parseSteps(rest)
		if err != nil {
			return err
		}
		return settle(m.Steps(-steps), logger, "migrations rolled back", "steps", steps)
	case "goto", "migrate":
		if len(rest) == 0 {
			return fmt.Errorf("%s requires a target version", cmd)
		}
		target, err := parseTarget(rest[0])
		if err != nil {
			return err
		}
		return settle(m.Migrate(target), logger, "migrated", "version", target)
	case "force":
		if len(rest) == 0 {
			return fmt.Errorf("force requires a version")
		}
		version, err := parseVersion(rest[0])
		if err != nil {
			return err
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("force version %d: %w", version, err)
		}
		logger.Info("version forced", "version", version)
		return nil
	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			_, err = fmt.Fprintln(out, "version: none\ndirty: false")
			return err
		}
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}
		_, err = fmt.Fprintf(out, "version: %d\ndirty: %t\n", version, dirty)
		return err
	default:
		return errUsage
	}
}

// settle treats ErrNoChange as success.
func settle(err error, logger *logging.Logger, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

// withMigrationsTable keeps this service's migration version in its own table
// so it can share a database with other services.
func withMigrationsTable(raw, table string) string {
	table = strings.TrimSpace(table)
	if table == "" {
		table = defaultMigrationsTable
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("x-migrations-table") != "" {
		return raw
	}
	query.Set("x-migrations-table", table)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func printUsage(w io.Writer) {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <up|down [n]|version|force <v>|goto <v>>\n", name)
	fmt.Fprintln(w, "env: DB_URL (required), MIGRATIONS_DIR, MIGRATIONS_TABLE, APP_LOG_LEVEL")
}
