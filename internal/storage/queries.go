package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/model"
)

// StoredDocument pairs a document with the header columns it is indexed by.
type StoredDocument struct {
	Meta model.DocumentMeta
	Doc  document.Document
}

const metaColumns = `hash, layout, match_id, match_date, league, home_team, away_team, score, source, ingested_at`

// DocumentExists returns true if a document with the given hash is already stored.
func (db *DB) DocumentExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM documents WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertDocuments stores docs in one transaction and returns how many were
// new. Documents already stored under the same hash are left untouched.
func (db *DB) InsertDocuments(docs []StoredDocument) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO documents(` + metaColumns + `, body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, d := range docs {
		m := d.Meta
		m.Hash = d.Doc.Hash()
		if m.IngestedAt == "" {
			m.IngestedAt = now
		}
		if m.Score == "" {
			m.Score = "-"
		}
		res, err := stmt.Exec(
			m.Hash, m.Layout, m.MatchID, m.MatchDate, m.League,
			m.HomeTeam, m.AwayTeam, m.Score, m.Source, m.IngestedAt,
			d.Doc.Raw(),
		)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", m.ShortHash(), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// ListDocuments returns the headers of all stored documents ordered by
// match_date desc.
func (db *DB) ListDocuments() ([]model.DocumentMeta, error) {
	rows, err := db.conn.Query(`SELECT ` + metaColumns + ` FROM documents ORDER BY match_date DESC, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DocumentMeta
	for rows.Next() {
		m, err := scanMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeta(s scanner) (model.DocumentMeta, error) {
	var m model.DocumentMeta
	err := s.Scan(&m.Hash, &m.Layout, &m.MatchID, &m.MatchDate, &m.League,
		&m.HomeTeam, &m.AwayTeam, &m.Score, &m.Source, &m.IngestedAt)
	return m, err
}

// LoadDocuments returns every stored document ordered by match_date asc.
func (db *DB) LoadDocuments() ([]document.Document, error) {
	return db.loadDocuments(`SELECT body FROM documents ORDER BY match_date, hash`)
}

// LoadTeamDocuments returns the stored documents in which team is either side.
func (db *DB) LoadTeamDocuments(team string) ([]document.Document, error) {
	return db.loadDocuments(`
		SELECT body FROM documents
		WHERE home_team = ? OR away_team = ?
		ORDER BY match_date, hash`, team, team)
}

func (db *DB) loadDocuments(query string, args ...any) ([]document.Document, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []document.Document
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		d, err := document.Parse([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("parse stored document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetDocumentByPrefix finds the first document whose hash starts with the
// given prefix. It returns ErrNotFound when none does.
func (db *DB) GetDocumentByPrefix(prefix string) (*model.DocumentMeta, document.Document, error) {
	row := db.conn.QueryRow(`
		SELECT `+metaColumns+`, body FROM documents
		WHERE hash LIKE ? ORDER BY hash LIMIT 1`, prefix+"%")
	var (
		m    model.DocumentMeta
		body string
	)
	err := row.Scan(&m.Hash, &m.Layout, &m.MatchID, &m.MatchDate, &m.League,
		&m.HomeTeam, &m.AwayTeam, &m.Score, &m.Source, &m.IngestedAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, document.Document{}, fmt.Errorf("hash prefix %q: %w", prefix, ErrNotFound)
	}
	if err != nil {
		return nil, document.Document{}, err
	}
	d, err := document.Parse([]byte(body))
	if err != nil {
		return nil, document.Document{}, fmt.Errorf("parse stored document: %w", err)
	}
	return &m, d, nil
}

// DeleteDocument removes the document with the given hash and reports
// whether one existed.
func (db *DB) DeleteDocument(hash string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM documents WHERE hash = ?`, hash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// TeamCounts returns every side name with the number of stored documents it
// appears in, ordered by name.
func (db *DB) TeamCounts() ([]string, map[string]int, error) {
	rows, err := db.conn.Query(`
		SELECT team, COUNT(1) FROM (
			SELECT home_team AS team FROM documents
			UNION ALL
			SELECT away_team AS team FROM documents
		)
		WHERE team != ''
		GROUP BY team ORDER BY team`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var names []string
	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		counts[name] = n
	}
	return names, counts, rows.Err()
}

// Overview holds store-wide totals for the summary command.
type Overview struct {
	TotalDocuments int
	EarliestMatch  string
	LatestMatch    string
	Teams          int
	Leagues        int
}

// GetOverview returns store-wide totals.
func (db *DB) GetOverview() (Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1),
		       COALESCE(MIN(NULLIF(match_date, '')), ''),
		       COALESCE(MAX(NULLIF(match_date, '')), ''),
		       COUNT(DISTINCT NULLIF(league, ''))
		FROM documents`).Scan(&ov.TotalDocuments, &ov.EarliestMatch, &ov.LatestMatch, &ov.Leagues)
	if err != nil {
		return ov, fmt.Errorf("overview: %w", err)
	}
	err = db.conn.QueryRow(`
		SELECT COUNT(DISTINCT team) FROM (
			SELECT home_team AS team FROM documents
			UNION
			SELECT away_team AS team FROM documents
		) WHERE team != ''`).Scan(&ov.Teams)
	if err != nil {
		return ov, fmt.Errorf("count teams: %w", err)
	}
	return ov, nil
}

// GroupCount is a label with a document count.
type GroupCount struct {
	Label string
	Count int
}

// LeagueCounts returns document counts per league, largest first.
func (db *DB) LeagueCounts() ([]GroupCount, error) {
	return db.groupCounts(`
		SELECT CASE WHEN league = '' THEN '(none)' ELSE league END, COUNT(1)
		FROM documents GROUP BY 1 ORDER BY 2 DESC, 1`)
}

// LayoutCounts returns document counts per detected layout.
func (db *DB) LayoutCounts() ([]GroupCount, error) {
	return db.groupCounts(`SELECT layout, COUNT(1) FROM documents GROUP BY layout ORDER BY 2 DESC, 1`)
}

func (db *DB) groupCounts(query string) ([]GroupCount, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupCount
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.Label, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows with
// every value rendered as text. NULL renders as "NULL".
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
