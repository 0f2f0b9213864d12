package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mediascan/internal/mediainfo"
)

// FindByPath returns the record stored for path, or nil when none exists.
func (s *Store) FindByPath(ctx context.Context, path string) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT `+recordColumns+` FROM media WHERE filepath = ? LIMIT 1`), path)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by path: %w", err)
	}
	return rec, nil
}

// Insert stores rec and returns the persisted copy with its ID assigned.
// AddedAt defaults to the current time. A unique violation on the file path
// is reported as ErrDuplicate.
func (s *Store) Insert(ctx context.Context, rec Record) (*Record, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(rec.Filepath) == "" {
		return nil, errors.New("insert media: filepath is empty")
	}
	if rec.AddedAt.IsZero() {
		rec.AddedAt = time.Now().UTC()
	}

	query := s.dialect.rebind(`INSERT INTO media (
            category, type, filepath, ext, filename, title,
            codec, audio, quality, source, team, year,
            season, episode, series, size, mod_time, added_at, run_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	args := []any{
		rec.Category,
		string(rec.Type),
		rec.Filepath,
		rec.Ext,
		rec.Filename,
		rec.Title,
		nullableString(rec.Codec),
		nullableString(rec.Audio),
		nullableString(rec.Quality),
		nullableString(rec.Source),
		nullableString(rec.Team),
		nullableString(rec.Year),
		nullableInt(rec.Season),
		nullableInt(rec.Episode),
		nullableString(rec.Series),
		rec.Size,
		nullableTime(rec.ModTime),
		rec.AddedAt.UTC().Format(time.RFC3339Nano),
		nullableString(rec.RunID),
	}

	var id int64
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert media %q: %w", rec.Filepath, ErrDuplicate)
		}
		return nil, fmt.Errorf("insert media: %w", err)
	}
	rec.ID = id
	return &rec, nil
}

// List returns records matching filter ordered by insertion.
func (s *Store) List(ctx context.Context, filter Filter) ([]*Record, error) {
	ctx = ensureContext(ctx)
	var (
		clauses []string
		args    []any
	)
	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if series := strings.TrimSpace(filter.Series); series != "" {
		clauses = append(clauses, "LOWER(series) = LOWER(?)")
		args = append(args, series)
	}

	query := `SELECT ` + recordColumns + ` FROM media`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of records grouped by media type.
func (s *Store) Count(ctx context.Context) (map[mediainfo.Type]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(1) FROM media GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("catalog stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[mediainfo.Type]int)
	for rows.Next() {
		var typ string
		var count int
		if err := rows.Scan(&typ, &count); err != nil {
			return nil, err
		}
		counts[mediainfo.Type(typ)] = count
	}
	return counts, rows.Err()
}

// Clear removes every record from the catalog.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM media`)
	if err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}
	return res.RowsAffected()
}
