// Package mediainfo derives structured metadata from media file paths.
//
// Parse classifies a path by extension and, for video files, runs an ordered
// cascade of strip-and-capture rules over the filename: language tags, codec,
// audio format, quality, release source, release team, junk tokens and year
// are peeled off in that order, each rule removing only its first match so a
// later rule sees the text left behind by the earlier ones. The remainder is
// normalized into a title, season/episode markers are detected, and series
// names fall back to the parent directory when the filename carries nothing
// but the episode marker.
//
// Parse is pure: it performs no I/O and shares only read-only compiled
// patterns, so it is safe for concurrent use.
package mediainfo
