package catalog

import (
	"database/sql"
	"errors"
	"time"

	"mediascan/internal/mediainfo"
)

// ErrDuplicate is returned by Insert when a record for the same file path
// already exists.
var ErrDuplicate = errors.New("catalog: duplicate filepath")

// Record is a catalogued media file: the extracted metadata plus bookkeeping
// captured at ingest time.
type Record struct {
	ID int64 `json:"id"`
	mediainfo.Metadata
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	AddedAt time.Time `json:"added_at"`
	RunID   string    `json:"run_id,omitempty"`
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	Type   mediainfo.Type
	Series string
	Limit  int
}

const recordColumns = "id, category, type, filepath, ext, filename, title, codec, audio, quality, source, team, year, season, episode, series, size, mod_time, added_at, run_id"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         int64
		category   string
		typ        string
		path       string
		ext        string
		filename   string
		title      string
		codec      sql.NullString
		audio      sql.NullString
		quality    sql.NullString
		source     sql.NullString
		team       sql.NullString
		year       sql.NullString
		season     sql.NullInt64
		episode    sql.NullInt64
		series     sql.NullString
		size       int64
		modTimeRaw sql.NullString
		addedRaw   string
		runID      sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&category,
		&typ,
		&path,
		&ext,
		&filename,
		&title,
		&codec,
		&audio,
		&quality,
		&source,
		&team,
		&year,
		&season,
		&episode,
		&series,
		&size,
		&modTimeRaw,
		&addedRaw,
		&runID,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID: id,
		Metadata: mediainfo.Metadata{
			Category: category,
			Type:     mediainfo.Type(typ),
			Filepath: path,
			Ext:      ext,
			Filename: filename,
			Title:    title,
			Codec:    codec.String,
			Audio:    audio.String,
			Quality:  quality.String,
			Source:   source.String,
			Team:     team.String,
			Year:     year.String,
			Series:   series.String,
		},
		Size:  size,
		RunID: runID.String,
	}
	if season.Valid && episode.Valid {
		s, e := int(season.Int64), int(episode.Int64)
		rec.Season = &s
		rec.Episode = &e
	}
	if modTime, err := parseTimeString(modTimeRaw.String); err == nil {
		rec.ModTime = modTime
	}
	if added, err := parseTimeString(addedRaw); err == nil {
		rec.AddedAt = added
	}
	return rec, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return int64(*value)
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}
