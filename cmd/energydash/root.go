package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jgoulah/energydash/internal/backend"
	"github.com/jgoulah/energydash/internal/charts"
	"github.com/jgoulah/energydash/internal/config"
	"github.com/jgoulah/energydash/internal/dashboard"
	"github.com/jgoulah/energydash/internal/database"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "energydash",
	Short: "Track appliance usage and predict electricity bills",
	Long: `EnergyDash is a client for the smart energy monitor API.
It manages appliances, predicts next month's bill, shows usage, cost and savings
reports, talks to the energy assistant and serves a web dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "prediction history database (default is ./data.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// getConfigPath returns the config file path
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

// getDBPath returns the database file path (local directory)
func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return "data.db"
}

// loadConfig loads the configuration file
func loadConfig() (*config.Config, error) {
	return config.Load(getConfigPath())
}

// saveConfig saves the configuration file
func saveConfig(cfg *config.Config) error {
	return config.Save(getConfigPath(), cfg)
}

// openDB opens the database connection
func openDB() (*database.DB, error) {
	path := getDBPath()

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	return database.New(path)
}

// newLogger builds the diagnostics logger. Output goes to stderr so it never
// mixes with command output.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// session is everything a command needs to drive the dashboard controller
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	client *backend.Client
	board  *charts.Board
	db     *database.DB // nil unless history is enabled
}

// newSession loads config and connects the pieces. When record is set and
// history is enabled, successful predictions are stored.
func newSession(record bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		client: backend.New(cfg.GetBackendURL(), cfg.GetBackendTimeout()),
		board:  charts.NewBoard(),
	}

	if record && cfg.History.Enabled {
		db, err := openDB()
		if err != nil {
			logger.Sync()
			return nil, fmt.Errorf("opening database: %w", err)
		}
		s.db = db
	}

	logger.Debug("session ready",
		zap.String("backend", s.client.BaseURL()),
		zap.Bool("history", s.db != nil),
	)
	return s, nil
}

// controller builds a dashboard controller rendering into view
func (s *session) controller(view dashboard.View) *dashboard.Controller {
	opts := []dashboard.Option{dashboard.WithLogger(s.logger)}
	if s.db != nil {
		opts = append(opts, dashboard.WithRecorder(s.db))
	}
	return dashboard.New(s.client, view, s.board, opts...)
}

// withController runs fn against a controller that prints to stdout
func withController(record bool, fn func(s *session, ctrl *dashboard.Controller) error) error {
	s, err := newSession(record)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s, s.controller(newConsoleView(os.Stdout)))
}

func (s *session) Close() {
	if s.db != nil {
		s.db.Close()
	}
	s.logger.Sync()
}
