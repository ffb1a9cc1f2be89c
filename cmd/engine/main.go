package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"scrapster-engine/internal/config"
	"scrapster-engine/internal/events"
	"scrapster-engine/internal/httpapi"
	"scrapster-engine/internal/query"
	"scrapster-engine/internal/run"
	"scrapster-engine/internal/search"
	"scrapster-engine/internal/secrets"
	"scrapster-engine/internal/store"
)

func main() {
	// Engine data dir: use env if provided (a desktop shell can pass one), else local folder.
	dataDir := os.Getenv("SCRAPSTER_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		config.OverlayEnv(&cfg)
		cfg = secrets.FillFromKeyring(cfg)

		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		for _, e := range vr.Errors {
			log.Printf("[config] error: %s", e)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	db, err := store.Open()
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hub := events.NewHub()
	runner := run.New(db, hub, search.NewClient())

	mux := httpapi.NewMux(httpapi.Deps{
		DB:          db.Pool,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		StartRun: func(spec query.Spec) error {
			cur := cfgVal.Load().(config.Config)
			return runner.Start(cur, spec)
		},
		RunActive: runner.Running,
	})

	port := cfg.App.Port
	if port == 0 {
		port = 38470
	}
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.Cors,
			httpapi.RequestID,
			httpapi.Recover,
			httpapi.AccessLog,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}

	token, err := randomToken(16)
	if err != nil {
		log.Fatal(err)
	}
	mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))

	log.Printf("engine listening on http://%s (config=%s)", addr, userCfgPath)
	fmt.Printf("SHUTDOWN_TOKEN=%s\n", token)

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
