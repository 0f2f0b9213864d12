package mediainfo

import "regexp"

var (
	samplePattern  = regexp.MustCompile(`(?i)\bsample\b`)
	trailerPattern = regexp.MustCompile(`(?i)\btrailer\b`)
)

// Valid reports whether a record should be ingested: its type must be known
// and its title must not mark it as a sample or a trailer.
func Valid(m Metadata) bool {
	if m.Type == TypeUnknown || m.Type == "" {
		return false
	}
	return !samplePattern.MatchString(m.Title) && !trailerPattern.MatchString(m.Title)
}
