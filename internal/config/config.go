// internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type CredentialPair struct {
	APIKey   string `yaml:"api_key" json:"api_key"`
	EngineID string `yaml:"engine_id" json:"engine_id"`
}

type App struct {
	Port    int    `yaml:"port"`
	DataDir string `yaml:"data_dir"`
}

type Search struct {
	Credentials      []CredentialPair `yaml:"credentials"`
	RotateKeys       bool             `yaml:"rotate_keys"`
	RateLimitDelay   float64          `yaml:"rate_limit_delay_seconds"`
	PageSize         int              `yaml:"page_size"`
	MaxPagesPerQuery int              `yaml:"max_pages_per_query"`
}

type Run struct {
	TargetCount      int     `yaml:"target_count"`
	SourceFilter     string  `yaml:"source_filter"` // all/linkedin/github
	ProfileType      string  `yaml:"profile_type"`
	ExtractEmails    bool    `yaml:"extract_emails"`
	Advanced         bool    `yaml:"advanced"`
	ExtractWorkers   int     `yaml:"extract_workers"`
	CandidateTimeout float64 `yaml:"candidate_timeout_seconds"`
}

type Relevance struct {
	MinScore          float64  `yaml:"min_score"`
	ProfessionalTerms []string `yaml:"professional_terms"`
	IrrelevantTerms   []string `yaml:"irrelevant_terms"`
}

type Export struct {
	Format string `yaml:"format"` // csv/json/xlsx
}

type Config struct {
	App       App       `yaml:"app"`
	Search    Search    `yaml:"search"`
	Run       Run       `yaml:"run"`
	Relevance Relevance `yaml:"relevance"`
	Export    Export    `yaml:"export"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
