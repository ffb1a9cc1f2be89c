package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus field-level
// errors/warnings. Errors here block a run before any network access.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Relevance.ProfessionalTerms = trimList(out.Relevance.ProfessionalTerms)
	out.Relevance.IrrelevantTerms = trimList(out.Relevance.IrrelevantTerms)

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	// credentials: reject malformed pairs eagerly
	var creds []CredentialPair
	for i, c := range out.Search.Credentials {
		if strings.TrimSpace(c.APIKey) == "" {
			res.addErr("search.credentials[%d].api_key is empty", i)
			continue
		}
		if strings.TrimSpace(c.EngineID) == "" {
			res.addErr("search.credentials[%d].engine_id is empty", i)
			continue
		}
		creds = append(creds, CredentialPair{
			APIKey:   strings.TrimSpace(c.APIKey),
			EngineID: strings.TrimSpace(c.EngineID),
		})
	}
	out.Search.Credentials = creds
	if len(out.Search.Credentials) == 0 {
		res.addErr("search.credentials is empty: configure at least one api_key/engine_id pair")
	}
	if len(out.Search.Credentials) == 1 && out.Search.RotateKeys {
		res.addWarn("search.rotate_keys is on but only one credential is configured")
	}

	if out.Search.RateLimitDelay < 0 {
		res.addErr("search.rate_limit_delay_seconds must be >= 0")
	}
	if out.Search.PageSize <= 0 {
		out.Search.PageSize = 10
	}
	if out.Search.MaxPagesPerQuery <= 0 {
		out.Search.MaxPagesPerQuery = 10
	}

	if out.Run.TargetCount <= 0 {
		res.addErr("run.target_count must be > 0")
	}
	if out.Run.TargetCount > 500 {
		res.addWarn("run.target_count is very high (%d); runs may take a long time", out.Run.TargetCount)
	}
	switch out.Run.SourceFilter {
	case "", "all", "linkedin", "github":
	default:
		res.addErr("run.source_filter must be one of all/linkedin/github, got %q", out.Run.SourceFilter)
	}
	if out.Run.SourceFilter == "" {
		out.Run.SourceFilter = "all"
	}
	if out.Run.ExtractWorkers <= 0 {
		out.Run.ExtractWorkers = 4
	}
	if out.Run.CandidateTimeout <= 0 {
		out.Run.CandidateTimeout = 45
	}

	if out.Relevance.MinScore < 0 || out.Relevance.MinScore > 1 {
		res.addErr("relevance.min_score must be within [0,1]")
	}

	switch out.Export.Format {
	case "", "csv", "json", "xlsx":
	default:
		res.addErr("export.format must be one of csv/json/xlsx, got %q", out.Export.Format)
	}
	if out.Export.Format == "" {
		out.Export.Format = "csv"
	}

	return out, res
}
