package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/aggregator"
	"github.com/pable/go-tactics/internal/config"
	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/extract"
	"github.com/pable/go-tactics/internal/logger"
	"github.com/pable/go-tactics/internal/parser"
	"github.com/pable/go-tactics/internal/storage"
)

var (
	dbPath   string
	logLevel string
	workers  int

	// Set by the root PersistentPreRunE before any command runs.
	cfg *config.Config
	log = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "tactics",
	Short: "Football tactical profile tool",
	Long: `Ingest raw match documents and build tactical profiles for a team:
squad rotation, formation performance and substitution impact.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default $TACTICS_DB_PATH or ~/.tactics/matches.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "trace, debug, info, warn or error (default $TACTICS_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "teams profiled in parallel (default $TACTICS_WORKERS or 4)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}

// loadConfig reads the environment and lets persistent flags override it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	boot, err := logger.New(os.Stderr, logLevel)
	if err != nil {
		return err
	}
	c, err := config.Load(boot)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("workers") {
		c.Workers = workers
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	l, err := logger.New(os.Stderr, c.LogLevel)
	if err != nil {
		return err
	}
	cfg, log, dbPath = c, l, c.DBPath
	return nil
}

// openStore opens the database, creating its directory if needed.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// newExtractor returns an extractor that logs skipped documents at debug level.
func newExtractor() *extract.Extractor {
	return extract.New(extract.WithLogger(log))
}

// loadDocuments reads documents from files when any are given, otherwise
// from the store.
func loadDocuments(files []string) ([]document.Document, error) {
	if len(files) == 0 {
		db, err := openStore()
		if err != nil {
			return nil, err
		}
		defer db.Close()
		docs, err := db.LoadDocuments()
		if err != nil {
			return nil, fmt.Errorf("load documents: %w", err)
		}
		return docs, nil
	}

	var docs []document.Document
	for _, path := range files {
		f, err := parser.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("parse file: %w", err)
		}
		if f.Skipped > 0 {
			log.Warn().Str("file", path).Int("skipped", f.Skipped).Msg("entries that are not JSON objects were skipped")
		}
		docs = append(docs, f.Documents...)
	}
	return docs, nil
}

// pickTeam returns team when set. Otherwise it asks on a terminal, listing
// every side found in docs.
func pickTeam(docs []document.Document, team string) (string, error) {
	if team != "" {
		return team, nil
	}
	names := extract.TeamNames(docs)
	if len(names) == 0 {
		return "", errors.New("no teams found in the match documents")
	}
	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return "", errors.New("--team is required when stdin is not a terminal")
	}
	q := &survey.Select{
		Message: "Choose a team:",
		Options: names,
	}
	var picked string
	if err := survey.AskOne(q, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

// buildProfile loads documents and profiles one team. When the team has no
// usable matches it tells the user and returns a nil profile.
func buildProfile(files []string, team string) (*aggregator.TacticalProfile, error) {
	docs, err := loadDocuments(files)
	if err != nil {
		return nil, err
	}
	team, err = pickTeam(docs, team)
	if err != nil {
		return nil, err
	}
	p, err := aggregator.ProfileTeam(newExtractor(), docs, team)
	if errors.Is(err, aggregator.ErrNoData) {
		fmt.Fprintf(os.Stdout, "No data found for %s\n", team)
		return nil, nil
	}
	return p, err
}
