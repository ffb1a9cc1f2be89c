package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	var cfg Config
	cfg.App.Port = 38470
	cfg.Search.Credentials = []CredentialPair{{APIKey: "key", EngineID: "cx"}}
	cfg.Run.TargetCount = 50
	cfg.Relevance.MinScore = 0.3
	return cfg
}

func TestNormalizeAppliesDefaults(t *testing.T) {
	out, vr := NormalizeAndValidate(validConfig())
	require.True(t, vr.OK(), "errors: %v", vr.Errors)

	assert.Equal(t, 10, out.Search.PageSize)
	assert.Equal(t, 10, out.Search.MaxPagesPerQuery)
	assert.Equal(t, "all", out.Run.SourceFilter)
	assert.Equal(t, 4, out.Run.ExtractWorkers)
	assert.Equal(t, "csv", out.Export.Format)
}

func TestValidateEmptyConfigFails(t *testing.T) {
	_, vr := NormalizeAndValidate(Config{})
	require.False(t, vr.OK())

	all := ""
	for _, e := range vr.Errors {
		all += e + "\n"
	}
	assert.Contains(t, all, "app.port")
	assert.Contains(t, all, "search.credentials is empty")
	assert.Contains(t, all, "run.target_count")
}

func TestValidateRejectsMalformedCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Credentials = append(cfg.Search.Credentials, CredentialPair{APIKey: "", EngineID: "cx2"})

	out, vr := NormalizeAndValidate(cfg)
	assert.False(t, vr.OK())
	assert.Len(t, out.Search.Credentials, 1)
}

func TestValidateWarnsOnRotateWithOneKey(t *testing.T) {
	cfg := validConfig()
	cfg.Search.RotateKeys = true

	_, vr := NormalizeAndValidate(cfg)
	require.True(t, vr.OK())
	assert.NotEmpty(t, vr.Warnings)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := validConfig()
	cfg.Run.SourceFilter = "twitter"
	cfg.Relevance.MinScore = 1.5
	cfg.Export.Format = "pdf"

	_, vr := NormalizeAndValidate(cfg)
	assert.Len(t, vr.Errors, 3)
}

func TestTermListsTrimmedAndDeduped(t *testing.T) {
	cfg := validConfig()
	cfg.Relevance.ProfessionalTerms = []string{" engineer ", "", "Engineer", "founder"}

	out, vr := NormalizeAndValidate(cfg)
	require.True(t, vr.OK())
	assert.Equal(t, []string{"engineer", "founder"}, out.Relevance.ProfessionalTerms)
}

func TestParseCredentialPairs(t *testing.T) {
	pairs := ParseCredentialPairs("k1:cx1, k2:cx2 ,malformed, :cx3,k4:")
	require.Len(t, pairs, 2)
	assert.Equal(t, CredentialPair{APIKey: "k1", EngineID: "cx1"}, pairs[0])
	assert.Equal(t, CredentialPair{APIKey: "k2", EngineID: "cx2"}, pairs[1])
}

func TestOverlayEnv(t *testing.T) {
	t.Setenv("SCRAPSTER_API_KEYS", "k1:cx1,k2:cx2")
	t.Setenv("SCRAPSTER_RATE_LIMIT_DELAY", "2.5")
	t.Setenv("SCRAPSTER_ROTATE_KEYS", "true")

	cfg := validConfig()
	OverlayEnv(&cfg)

	assert.Len(t, cfg.Search.Credentials, 2)
	assert.Equal(t, 2.5, cfg.Search.RateLimitDelay)
	assert.True(t, cfg.Search.RotateKeys)
}

func TestSaveAtomicRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := validConfig()
	require.NoError(t, SaveAtomic(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.App.Port, loaded.App.Port)
	assert.Equal(t, cfg.Search.Credentials, loaded.Search.Credentials)

	// second save keeps a backup of the previous file
	cfg.App.Port = 38471
	require.NoError(t, SaveAtomic(path, cfg))
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestSaveAtomicRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, SaveAtomic(filepath.Join(dir, "config.yml"), Config{}))
}

func TestEnsureUserConfigCopiesDefault(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "default.yml")
	require.NoError(t, os.WriteFile(defaultPath, []byte("app:\n  port: 38470\n"), 0o644))

	dataDir := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	userPath, err := EnsureUserConfig(dataDir, defaultPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, "config.yml"), userPath)

	b, err := os.ReadFile(userPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "38470")

	// second call is a no-op, not a re-copy
	again, err := EnsureUserConfig(dataDir, "does-not-exist.yml")
	require.NoError(t, err)
	assert.Equal(t, userPath, again)
}
