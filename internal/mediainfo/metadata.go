package mediainfo

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Category is the constant category stamped on every record.
const Category = "media"

// Type classifies a file by extension.
type Type string

const (
	TypeVideo   Type = "video"
	TypeAudio   Type = "audio"
	TypeImage   Type = "image"
	TypeUnknown Type = "unknown"
)

func (t Type) String() string { return string(t) }

var extensionTypes = map[string]Type{
	"avi":  TypeVideo,
	"flv":  TypeVideo,
	"mkv":  TypeVideo,
	"mov":  TypeVideo,
	"mp4":  TypeVideo,
	"mpg":  TypeVideo,
	"mpeg": TypeVideo,
	"m4v":  TypeVideo,
	"wmv":  TypeVideo,
	"mp3":  TypeAudio,
	"wav":  TypeAudio,
	"jpg":  TypeImage,
	"jpeg": TypeImage,
	"png":  TypeImage,
	"gif":  TypeImage,
	"bmp":  TypeImage,
}

// TypeForExt returns the media type for a lowercase extension without dot.
func TypeForExt(ext string) Type {
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return TypeUnknown
}

// Metadata is the extraction result for one file. Optional attributes are
// only ever set on video records; Season, Episode and Series are set together.
type Metadata struct {
	Category string `json:"category"`
	Type     Type   `json:"type"`
	Filepath string `json:"filepath"`
	Ext      string `json:"ext"`
	Filename string `json:"filename"`
	Title    string `json:"title"`

	Codec   string `json:"codec,omitempty"`
	Audio   string `json:"audio,omitempty"`
	Quality string `json:"quality,omitempty"`
	Source  string `json:"source,omitempty"`
	Team    string `json:"team,omitempty"`
	Year    string `json:"year,omitempty"`

	Season  *int   `json:"season,omitempty"`
	Episode *int   `json:"episode,omitempty"`
	Series  string `json:"series,omitempty"`
}

// IsEpisode reports whether a season/episode marker was found.
func (m Metadata) IsEpisode() bool {
	return m.Season != nil && m.Episode != nil
}

// Attributes returns the optional attributes that are present, keyed by
// their record names.
func (m Metadata) Attributes() map[string]string {
	attrs := make(map[string]string, 9)
	for key, value := range map[string]string{
		"codec":   m.Codec,
		"audio":   m.Audio,
		"quality": m.Quality,
		"source":  m.Source,
		"team":    m.Team,
		"year":    m.Year,
		"series":  m.Series,
	} {
		if value != "" {
			attrs[key] = value
		}
	}
	if m.IsEpisode() {
		attrs["season"] = fmt.Sprint(*m.Season)
		attrs["episode"] = fmt.Sprint(*m.Episode)
	}
	return attrs
}

// Parse maps a file path to its metadata record.
func Parse(path string) Metadata {
	ext, filename := splitExt(filepath.Base(path))
	meta := Metadata{
		Category: Category,
		Type:     TypeForExt(ext),
		Filepath: path,
		Ext:      ext,
		Filename: filename,
		Title:    filename,
	}
	if meta.Type != TypeVideo {
		return meta
	}

	parent := filepath.Base(filepath.Dir(path))
	video := parseVideoTitle(filename, parent, true)
	meta.Title = video.title
	meta.Codec = video.attrs.codec
	meta.Audio = video.attrs.audio
	meta.Quality = video.attrs.quality
	meta.Source = video.attrs.source
	meta.Team = video.attrs.team
	meta.Year = video.attrs.year
	if video.episode != nil {
		season, episode := video.episode.season, video.episode.episode
		meta.Season = &season
		meta.Episode = &episode
		meta.Series = video.episode.series
	}
	return meta
}

// splitExt separates a base name into its lowercase extension (without the
// dot) and the remaining filename. Leading dots do not start an extension,
// so ".hidden" has none.
func splitExt(base string) (ext, filename string) {
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || strings.Trim(base[:idx], ".") == "" {
		return "", base
	}
	return strings.ToLower(base[idx+1:]), base[:idx]
}
