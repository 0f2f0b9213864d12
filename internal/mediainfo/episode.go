package mediainfo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"mediascan/internal/textutil"
)

var (
	// separatorPattern matches runs of characters that cannot appear in a title.
	separatorPattern = regexp.MustCompile(`(?i)[^a-z0-9ÀÁÂÄÇÈÉÊËÌÍÎÏÒÓÔÖÙÚÛÜàáâäçèéêëîïôöûü']+`)
	episodePattern   = regexp.MustCompile(`(?i)s?(\d+)\s*[ex](\d+)`)
	// residualEpisodePattern strips an "NxNN" suffix from a series name
	// derived from the parent directory.
	residualEpisodePattern = regexp.MustCompile(`\s*\d+x\d+\s*`)
)

type episodeInfo struct {
	series  string
	season  int
	episode int
}

type videoTitle struct {
	title   string
	attrs   attributes
	episode *episodeInfo
}

// parseVideoTitle runs the cascade, normalization and season/episode
// detection over a raw filename. When the filename holds nothing but an
// episode marker and fallback is set, the series name is derived from
// parentDir by a second, non-falling-back pass.
func parseVideoTitle(raw, parentDir string, fallback bool) videoTitle {
	s := runCascade(raw)
	normalized := normalizeTitle(s.title)

	candidate := normalized
	var found *episodeInfo
	if loc := episodePattern.FindStringSubmatchIndex(normalized); loc != nil {
		season, seasonErr := strconv.Atoi(normalized[loc[2]:loc[3]])
		episode, episodeErr := strconv.Atoi(normalized[loc[4]:loc[5]])
		if seasonErr == nil && episodeErr == nil {
			found = &episodeInfo{season: season, episode: episode}
			candidate = normalized[:loc[0]]
		}
	}

	title := textutil.TitleCase(candidate)
	if found == nil {
		return videoTitle{title: title, attrs: s.attrs}
	}

	if title == "" && fallback {
		title = parseVideoTitle(parentDir, "", false).title
		if loc := residualEpisodePattern.FindStringIndex(title); loc != nil {
			title = title[:loc[0]] + title[loc[1]:]
		}
	}
	found.series = title

	return videoTitle{
		title:   episodeTitle(found.series, found.season, found.episode),
		attrs:   s.attrs,
		episode: found,
	}
}

// normalizeTitle replaces separator runs with single spaces and trims.
func normalizeTitle(title string) string {
	return strings.TrimSpace(separatorPattern.ReplaceAllLiteralString(title, " "))
}

// episodeTitle formats "<series> <season>x<episode>" with the episode padded
// to at least two digits.
func episodeTitle(series string, season, episode int) string {
	return fmt.Sprintf("%s %dx%02d", series, season, episode)
}
