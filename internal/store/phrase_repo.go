package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// phraseInsertBatch bounds the bound parameters per INSERT well below
// SQLite's variable limit.
const phraseInsertBatch = 500

var phraseColumns = []string{"id", "position", "text", "note", "timestamp", "last_score", "practice_count"}

// phraseRepo implements PhraseRepo. The library is small and always written
// as a whole, so the table is rewritten inside one transaction.
type phraseRepo struct {
	db *sql.DB
}

func (r *phraseRepo) LoadPhrases(ctx context.Context) ([]PhraseRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id", "text", "note", "timestamp", "last_score", "practice_count").
		From(b.Table(phrasesTable)).
		OrderBy(entsql.Asc("position")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query phrases: %w", err)
	}
	defer rows.Close()

	var out []PhraseRecord
	for rows.Next() {
		var (
			rec   PhraseRecord
			ts    int64
			score sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &rec.Text, &rec.Note, &ts, &score, &rec.PracticeCount); err != nil {
			return nil, fmt.Errorf("scan phrase: %w", err)
		}
		rec.Timestamp = time.UnixMilli(ts)
		if score.Valid {
			v := int(score.Int64)
			rec.LastScore = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *phraseRepo) ReplacePhrases(ctx context.Context, records []PhraseRecord) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Delete(phrasesTable).Query()
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear phrases: %w", err)
	}

	for start := 0; start < len(records); start += phraseInsertBatch {
		end := min(start+phraseInsertBatch, len(records))
		ins := b.Insert(phrasesTable).Columns(phraseColumns...)
		for i := start; i < end; i++ {
			rec := records[i]
			ins.Values(rec.ID, i, rec.Text, rec.Note, rec.Timestamp.UnixMilli(), nullInt(rec.LastScore), rec.PracticeCount)
		}
		query, args := ins.Query()
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert phrases: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit phrases: %w", err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
