package httpapi

import (
	"database/sql"
	"sync/atomic"

	"scrapster-engine/internal/config"
	"scrapster-engine/internal/events"
	"scrapster-engine/internal/query"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic store for the live config; handlers never hold a snapshot
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Run entrypoints (injected for testability)
	StartRun  func(spec query.Spec) error
	RunActive func() bool
}
