// Command freezerctl runs maintenance tasks against the freezeraudit
// database: migrations, user management, seeding and exports.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/freezeraudit/internal/admin"
	"github.com/dmitrijs2005/freezeraudit/internal/logging"
	"github.com/dmitrijs2005/freezeraudit/internal/server"
	"github.com/dmitrijs2005/freezeraudit/internal/server/auth"
	"github.com/dmitrijs2005/freezeraudit/internal/server/config"
	"github.com/dmitrijs2005/freezeraudit/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg    *config.Config
	logger logging.Logger

	passwordFlag string
	uploadFlag   bool
)

// readPassword is a seam for term.ReadPassword.
var readPassword = term.ReadPassword

var openDB = server.OpenDB

var rootCmd = &cobra.Command{
	Use:   "freezerctl",
	Short: "Maintenance tasks for freezeraudit",
	Long: `freezerctl manages the freezeraudit database.

Settings come from the same sources as the server: .env, environment
variables (DATABASE_URL, SESSION_SECRET, S3_*) and an optional -c config.json.`,
	SilenceUsage: true,
	// server flags such as -c are read by config.LoadConfig
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

var createUserCmd = &cobra.Command{
	Use:   "create-user <username>",
	Short: "Create a user and print a session cookie for it",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreateUser,
}

var deleteUserCmd = &cobra.Command{
	Use:   "delete-user <username>",
	Short: "Delete a user with all of its items and locations",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteUser,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Recreate the demo user with a sample item",
	Long: `Recreate the demo user "dontworry" with one sample item.

The password is taken from $DEFAULT_PASS, falling back to a built-in default.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

var exportCmd = &cobra.Command{
	Use:   "export <username>",
	Short: "Write a user's items as CSV, or upload them with --upload",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	createUserCmd.Flags().StringVar(&passwordFlag, "password", "", "password for the new user (prompted when empty)")
	exportCmd.Flags().BoolVar(&uploadFlag, "upload", false, "upload to object storage and print a download link")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(deleteUserCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	cfg = config.LoadConfig()
	logger = logging.NewJSONLogger(os.Stderr, cfg.Debug)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	if cfg.DatabaseDSN == "" {
		return nil, nil, config.ErrMissingDatabaseDSN
	}
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return db, repomanager.NewPostgresRepositoryManager(), nil
}

// withAdmin connects to the database and runs fn with an Admin writing to
// the command's output.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, a *admin.Admin) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, m, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := server.NewServices(db, m, cfg)
	store := auth.NewStore(cfg.SessionSecret, cfg.IsProduction())
	a := admin.New(svc.Users, svc.Items, svc.Exports, store, cmd.OutOrStdout(), logger)

	return fn(ctx, a)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, m, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	if cfg.SessionSecret == "" {
		return config.ErrMissingSessionSecret
	}

	password, err := resolvePassword(cmd)
	if err != nil {
		return err
	}

	return withAdmin(cmd, func(ctx context.Context, a *admin.Admin) error {
		return a.CreateUser(ctx, args[0], password)
	})
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	return withAdmin(cmd, func(ctx context.Context, a *admin.Admin) error {
		return a.DeleteUser(ctx, args[0])
	})
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withAdmin(cmd, func(ctx context.Context, a *admin.Admin) error {
		return a.Seed(ctx, os.Getenv("DEFAULT_PASS"))
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	return withAdmin(cmd, func(ctx context.Context, a *admin.Admin) error {
		return a.Export(ctx, args[0], uploadFlag)
	})
}

// resolvePassword returns --password or prompts for one without echo.
func resolvePassword(cmd *cobra.Command) (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}

	w := cmd.ErrOrStderr()
	fmt.Fprint(w, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return "", errors.New("password required")
	}
	return string(pw), nil
}
