package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/nikhilrearck/caremap-demo-sub000/internal/config"
	"github.com/nikhilrearck/caremap-demo-sub000/internal/storage"
	"github.com/nikhilrearck/caremap-demo-sub000/internal/storage/sqlite"
)

var (
	dbPath     string
	jsonOutput bool
	store      storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "caremap",
	Short: "caremap - Track configuration synchronizer",
	Long:  `Synchronizes versioned track configuration (categories, items, questions, response options) into the local health database.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Priority: flags > viper (config file + env vars) > defaults
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if !cmd.Flags().Changed("db") && dbPath == "" {
			dbPath = config.GetString("db")
		}

		if cmd.Name() == "help" || cmd.Name() == "version" {
			return
		}

		var err error
		store, err = openStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		checkVersionMismatch()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
			store = nil
		}
	},
}

// openStore opens the SQLite database at the configured path, creating
// the parent directory on first use.
func openStore() (storage.Storage, error) {
	path := dbPath
	if path == "" {
		path = findDBPath()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return sqlite.New(path)
}

// findDBPath walks up from the working directory looking for an existing
// .caremap/caremap.db, falling back to .caremap/caremap.db in CWD.
func findDBPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".caremap", "caremap.db")
	}
	for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, ".caremap", "caremap.db")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return filepath.Join(cwd, ".caremap", "caremap.db")
}

// checkVersionMismatch warns when the binary version differs from the
// version that last wrote to this database.
func checkVersionMismatch() {
	ctx := context.Background()

	dbVersion, err := store.GetMetadata(ctx, "caremap_version")
	if err != nil {
		if os.Getenv("CAREMAP_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "Debug: version check skipped, metadata error: %v\n", err)
		}
		return
	}

	if dbVersion == "" {
		_ = store.SetMetadata(ctx, "caremap_version", Version)
		return
	}

	if dbVersion != Version {
		yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
		fmt.Fprintf(os.Stderr, "%s\n", yellow(fmt.Sprintf("Warning: caremap binary (v%s) differs from the database version (v%s)", Version, dbVersion)))

		if semver.Compare("v"+Version, "v"+dbVersion) < 0 {
			fmt.Fprintf(os.Stderr, "%s\n", yellow("Your binary appears to be outdated; some features may not work correctly."))
		}
	}

	_ = store.SetMetadata(ctx, "caremap_version", Version)
}

// outputJSON outputs data as pretty-printed JSON
func outputJSON(v interface{}) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func main() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-v" {
			fmt.Printf("caremap version %s (%s)\n", Version, Build)
			return
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
