// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ontology

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/mcq-engine/pkg/types"
)

// Store persists a Lexicon in a SQLite database so that a full WordNet
// import is paid for once and later runs start from the database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the lexicon database at path and creates the
// schema if it does not exist.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating lexicon directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS senses (
			seq INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			lemmas TEXT NOT NULL,
			gloss TEXT,
			examples TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS lemmas (
			lemma TEXT NOT NULL,
			position INTEGER NOT NULL,
			sense_id TEXT NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
			PRIMARY KEY (lemma, position)
		)`,
		`CREATE TABLE IF NOT EXISTS relations (
			seq INTEGER NOT NULL,
			parent TEXT NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
			child TEXT NOT NULL REFERENCES senses(id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			PRIMARY KEY (parent, child, kind)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_child ON relations(child)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ImportSummary holds counts from a lexicon import.
type ImportSummary struct {
	Senses    int
	Lemmas    int
	Relations int
}

// Import replaces the stored lexicon with lex in a single transaction and
// writes a one-line summary to w.
func (s *Store) Import(ctx context.Context, lex *Lexicon, w io.Writer) (ImportSummary, error) {
	var summary ImportSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"relations", "lemmas", "senses"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return summary, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	senseStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO senses (seq, id, lemmas, gloss, examples) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing sense insert: %w", err)
	}
	defer senseStmt.Close()

	for i, id := range lex.SenseIDs() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		sense, _ := lex.Sense(id)
		lemmasJSON, _ := json.Marshal(sense.Lemmas)
		examplesJSON, _ := json.Marshal(sense.Examples)
		if _, err := senseStmt.ExecContext(ctx, i, sense.ID, string(lemmasJSON), sense.Gloss, string(examplesJSON)); err != nil {
			return summary, fmt.Errorf("inserting sense %s: %w", sense.ID, err)
		}
		summary.Senses++
	}

	lemmaStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lemmas (lemma, position, sense_id) VALUES (?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing lemma insert: %w", err)
	}
	defer lemmaStmt.Close()

	for _, lemma := range lex.Lemmas() {
		for rank, id := range lex.LemmaSenseIDs(lemma) {
			if _, err := lemmaStmt.ExecContext(ctx, lemma, rank, id); err != nil {
				return summary, fmt.Errorf("inserting lemma %s: %w", lemma, err)
			}
		}
		summary.Lemmas++
	}

	relStmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO relations (seq, parent, child, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return summary, fmt.Errorf("preparing relation insert: %w", err)
	}
	defer relStmt.Close()

	for i, rel := range lex.Relations() {
		if _, err := relStmt.ExecContext(ctx, i, rel.Parent, rel.Child, string(rel.Kind)); err != nil {
			return summary, fmt.Errorf("inserting relation %s -> %s: %w", rel.Child, rel.Parent, err)
		}
		summary.Relations++
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing import: %w", err)
	}

	fmt.Fprintf(w, "imported senses: %d, lemmas: %d, relations: %d\n",
		summary.Senses, summary.Lemmas, summary.Relations)
	return summary, nil
}

// Load reads the whole stored lexicon into memory.
func (s *Store) Load(ctx context.Context) (*Lexicon, error) {
	lex := NewLexicon()

	rows, err := s.db.QueryContext(ctx, `SELECT id, lemmas, gloss, examples FROM senses ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying senses: %w", err)
	}
	for rows.Next() {
		sense, err := scanSense(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		lex.AddSense(sense)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading senses: %w", err)
	}
	rows.Close()

	// Stored lemma ranks override the order implied by sense insertion.
	order := make(map[string][]string)
	var lemmaKeys []string
	rows, err = s.db.QueryContext(ctx, `SELECT lemma, sense_id FROM lemmas ORDER BY lemma, position`)
	if err != nil {
		return nil, fmt.Errorf("querying lemmas: %w", err)
	}
	for rows.Next() {
		var lemma, id string
		if err := rows.Scan(&lemma, &id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning lemma: %w", err)
		}
		if _, ok := order[lemma]; !ok {
			lemmaKeys = append(lemmaKeys, lemma)
		}
		order[lemma] = append(order[lemma], id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading lemmas: %w", err)
	}
	rows.Close()
	for _, lemma := range lemmaKeys {
		lex.SetLemmaOrder(lemma, order[lemma])
	}

	rows, err = s.db.QueryContext(ctx, `SELECT parent, child, kind FROM relations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("querying relations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var parent, child, kind string
		if err := rows.Scan(&parent, &child, &kind); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		if err := lex.AddRelation(parent, child, RelationKind(kind)); err != nil {
			return nil, fmt.Errorf("relation %s -> %s: %w", child, parent, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading relations: %w", err)
	}
	return lex, nil
}

// Lookup returns the stored senses of lemma in frequency order without
// loading the whole lexicon.
func (s *Store) Lookup(ctx context.Context, lemma string) ([]types.Sense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.id, s.lemmas, s.gloss, s.examples
		 FROM lemmas l JOIN senses s ON s.id = l.sense_id
		 WHERE l.lemma = ?
		 ORDER BY l.position`, NormalizeLemma(lemma))
	if err != nil {
		return nil, fmt.Errorf("querying senses of %s: %w", lemma, err)
	}
	defer rows.Close()

	var out []types.Sense
	for rows.Next() {
		sense, err := scanSense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading senses of %s: %w", lemma, err)
	}
	return out, nil
}

func scanSense(rows *sql.Rows) (types.Sense, error) {
	var (
		sense                    types.Sense
		lemmasJSON, examplesJSON string
		gloss                    sql.NullString
		examples                 sql.NullString
	)
	if err := rows.Scan(&sense.ID, &lemmasJSON, &gloss, &examples); err != nil {
		return sense, fmt.Errorf("scanning sense: %w", err)
	}
	sense.Gloss = gloss.String
	if err := json.Unmarshal([]byte(lemmasJSON), &sense.Lemmas); err != nil {
		return sense, fmt.Errorf("decoding lemmas of %s: %w", sense.ID, err)
	}
	examplesJSON = examples.String
	if examplesJSON != "" && examplesJSON != "null" {
		if err := json.Unmarshal([]byte(examplesJSON), &sense.Examples); err != nil {
			return sense, fmt.Errorf("decoding examples of %s: %w", sense.ID, err)
		}
	}
	return sense, nil
}
