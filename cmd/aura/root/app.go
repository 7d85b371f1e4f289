package root

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"auralife/internal/config"
	"auralife/internal/engine"
	"auralife/internal/logger"
	"auralife/internal/storage"
)

type app struct {
	cfg     *config.Config
	log     *logger.Logger
	svc     *engine.Service
	profile engine.ProfileKey
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.Path()
}

// loadConfig reads the config file, then environment, then flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if flagDB != "" {
		cfg.DBPath = flagDB
	}
	if flagProfile != "" {
		cfg.Profile = flagProfile
	}
	return cfg, nil
}

func openApp(ctx context.Context) (*app, func(), error) {
	return openAppWith(ctx, "")
}

// openAppWith is openApp with the log sent to logFile, a name resolved next
// to the database, instead of stderr.
func openAppWith(ctx context.Context, logFile string) (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	profile, err := engine.ParseProfileKey(cfg.ProfileOrDefault())
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.DBPath
	if path == "" {
		if path, err = storage.DefaultDBPath(); err != nil {
			return nil, nil, err
		}
	}
	// Opening the store creates the data directory the log file may live in.
	st, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	var logPaths []string
	if logFile != "" {
		logPaths = append(logPaths, logPathFor(path, logFile))
	}
	log, err := logger.New(cfg.LogModeOrDefault(), logPaths...)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Debug("store opened", "path", path, "profile", profile)

	svc := engine.NewService(st,
		engine.WithLocation(loc),
		engine.WithLogger(log.With("profile", profile)),
		engine.WithDefaults(engine.ProfileDefaults{Name: cfg.PlayerName, CharacterClass: cfg.CharacterClass}),
	)
	cleanup := func() {
		_ = st.Close()
		log.Sync()
	}
	return &app{cfg: cfg, log: log, svc: svc, profile: profile}, cleanup, nil
}

func logPathFor(dbPath, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(filepath.Dir(dbPath), name)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", s)
	}
	return id, nil
}
