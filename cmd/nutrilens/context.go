package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nutrilens/application/analysis"
	"nutrilens/application/capture"
	"nutrilens/application/session"
	"nutrilens/infrastructure/config"
	"nutrilens/infrastructure/persistence/localcache"
	"nutrilens/infrastructure/persistence/supabase"
	"nutrilens/infrastructure/vision"
)

// appContext lazily builds the client-side stack once per invocation.
// Every command goes through ensureSession so the meal log and profile
// are loaded before the command body runs.
type appContext struct {
	cacheFlag  *string
	deviceFlag *string

	cfg      *config.Config
	logger   *zap.Logger
	cache    *localcache.Store
	store    *supabase.Client
	manager  *session.Manager
	adapter  *capture.Adapter
	analyzer *analysis.Analyzer
}

func newAppContext(cacheFlag, deviceFlag *string) *appContext {
	return &appContext{cacheFlag: cacheFlag, deviceFlag: deviceFlag}
}

func (a *appContext) ensure() error {
	if a.cfg != nil {
		return nil
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newCLILogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	cachePath := cfg.CacheFile
	if a.cacheFlag != nil && *a.cacheFlag != "" {
		cachePath = *a.cacheFlag
	}
	if cachePath == "" {
		cachePath, err = localcache.DefaultPath()
		if err != nil {
			return err
		}
	}
	a.cache = localcache.NewStore(cachePath)

	deps := session.Deps{Cache: a.cache, Logger: logger}
	if cfg.SupabaseURL != "" && cfg.SupabaseAnonKey != "" {
		sessionPath := filepath.Join(filepath.Dir(cachePath), "session.json")
		store, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.StorageBucket, sessionPath, logger)
		if err != nil {
			return err
		}
		a.store = store
		deps.Auth, deps.Profiles, deps.Meals, deps.Images = store, store, store, store
	} else {
		off := offlineStore{}
		deps.Auth, deps.Profiles, deps.Meals, deps.Images = off, off, off, off
	}
	a.manager = session.NewManager(deps)

	device := cfg.CaptureDevice
	if a.deviceFlag != nil && *a.deviceFlag != "" {
		device = *a.deviceFlag
	}
	a.adapter = capture.NewAdapter(logger,
		capture.NewDeviceSource(device),
		capture.NewPickerSource(picturesDir(cfg)),
	)

	var backend analysis.Backend
	if cfg.AnalysisAPIURL != "" {
		backend = vision.NewRemote(cfg.AnalysisAPIURL)
	} else {
		backend = vision.NewDashScope(cfg.DashScopeEndpoint, cfg.DashScopeAPIKey, cfg.VisionModel, logger)
	}
	a.analyzer = analysis.NewAnalyzer(backend, logger)

	return nil
}

// ensureSession builds the stack and resolves the session state.
func (a *appContext) ensureSession(ctx context.Context) (*session.Manager, error) {
	if err := a.ensure(); err != nil {
		return nil, err
	}
	if a.manager.State() == session.StateUnchecked {
		a.manager.Bootstrap(ctx)
	}
	return a.manager, nil
}

func picturesDir(cfg *config.Config) string {
	if cfg.PicturesDir != "" {
		return cfg.PicturesDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Pictures")
}

func newCLILogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.WarnLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
