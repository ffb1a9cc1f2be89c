package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scrapster-engine/internal/domain"
)

type RunState struct {
	Status     string `json:"status"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Queries    int    `json:"queries"`
	Candidates int    `json:"candidates"`
	Target     int    `json:"target"`
	Records    int    `json:"records"`
}

type ListRecordsOpts struct {
	Sort  string // score | name | company
	Limit int
}

// BeginRun clears the previous run's output and marks a new run
// started. Only one run exists at a time.
func BeginRun(ctx context.Context, db *sql.DB, target int) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records;`); err != nil {
		return err
	}
	if _, err := tx.Exec(`
INSERT INTO run_state(id, status, started_at, target)
VALUES(1, 'running', ?, ?)
ON CONFLICT(id) DO UPDATE SET
  status='running', started_at=excluded.started_at,
  finished_at='', queries=0, candidates=0, target=excluded.target;
`, time.Now().UTC().Format(time.RFC3339), target); err != nil {
		return err
	}
	return tx.Commit()
}

// FinishRun records the terminal status and the final record set in
// one transaction.
func FinishRun(ctx context.Context, db *sql.DB, status string, queries, candidates int, records []domain.Record) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records;`); err != nil {
		return err
	}
	for _, r := range records {
		if _, err := tx.Exec(`
INSERT INTO records(name, email, job_title, company, profile_url, snippet, source, profile_type, relevance_score, relevance_reason)
VALUES(?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(profile_url) DO NOTHING;
`, r.Name, r.Email, r.JobTitle, r.Company, r.ProfileURL, r.Snippet, r.Source, r.ProfileType, r.RelevanceScore, r.RelevanceReason); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
UPDATE run_state SET status=?, finished_at=?, queries=?, candidates=? WHERE id=1;
`, status, time.Now().UTC().Format(time.RFC3339), queries, candidates); err != nil {
		return err
	}
	return tx.Commit()
}

func GetRunState(ctx context.Context, db *sql.DB) (RunState, error) {
	var st RunState
	err := db.QueryRowContext(ctx, `
SELECT status, started_at, finished_at, queries, candidates, target FROM run_state WHERE id=1;
`).Scan(&st.Status, &st.StartedAt, &st.FinishedAt, &st.Queries, &st.Candidates, &st.Target)
	if err == sql.ErrNoRows {
		return RunState{Status: "idle"}, nil
	}
	if err != nil {
		return RunState{}, err
	}
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records;`).Scan(&st.Records); err != nil {
		return RunState{}, err
	}
	return st, nil
}

func ListRecords(ctx context.Context, db *sql.DB, opts ListRecordsOpts) ([]domain.Record, error) {
	// whitelist sort columns
	sortCol := map[string]string{
		"score":   "relevance_score DESC, id ASC",
		"name":    "name ASC, id ASC",
		"company": "company ASC, id ASC",
	}[opts.Sort]
	if sortCol == "" {
		sortCol = "relevance_score DESC, id ASC"
	}
	if opts.Limit <= 0 {
		opts.Limit = 1000
	}

	query := fmt.Sprintf(`
SELECT name, email, job_title, company, profile_url, snippet, source, profile_type, relevance_score, relevance_reason
FROM records
ORDER BY %s
LIMIT ?;
`, sortCol)

	rows, err := db.QueryContext(ctx, query, opts.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var r domain.Record
		if err := rows.Scan(
			&r.Name, &r.Email, &r.JobTitle, &r.Company, &r.ProfileURL,
			&r.Snippet, &r.Source, &r.ProfileType, &r.RelevanceScore, &r.RelevanceReason,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
