package mediainfo

import "regexp"

// attributes holds the tokens captured by the cascade. It is copied by value
// so every rule application yields a fresh state.
type attributes struct {
	codec   string
	audio   string
	quality string
	source  string
	team    string
	year    string
}

// state is the immutable in-progress result folded through the cascade.
type state struct {
	title string
	attrs attributes
}

// rule strips a token from the title and optionally records its first
// capture group. A nil store discards the token.
type rule struct {
	name    string
	pattern *regexp.Regexp
	all     bool
	store   func(attributes, string) attributes
}

func (r rule) apply(s state) state {
	if r.all {
		s.title = r.pattern.ReplaceAllString(s.title, "")
		return s
	}
	loc := r.pattern.FindStringSubmatchIndex(s.title)
	if loc == nil {
		return s
	}
	if r.store != nil {
		value := ""
		if len(loc) >= 4 && loc[2] >= 0 {
			value = s.title[loc[2]:loc[3]]
		}
		s.attrs = r.store(s.attrs, value)
	}
	s.title = s.title[:loc[0]] + s.title[loc[1]:]
	return s
}

// cascade lists the extraction rules in application order. Earlier removals
// can expose tokens that were glued to noise, so the order is significant.
var cascade = []rule{
	{
		name:    "language",
		pattern: regexp.MustCompile(`(?i)\b(ita(lian)?|eng|jpn)\b`),
		all:     true,
	},
	{
		name:    "codec",
		pattern: regexp.MustCompile(`(?i)\b(x\.?26[45]|h\.?26[45]|xvid|divx|mkv)\b`),
		store:   func(a attributes, v string) attributes { a.codec = v; return a },
	},
	{
		name:    "audio",
		pattern: regexp.MustCompile(`(?i)\b((dd)?\W?5\.1(\W?dual)?|ac3(\W?dual)?|aac|(dd)?\W?2\.0|mp3|aac\W?2\.0|dts)\b`),
		store:   func(a attributes, v string) attributes { a.audio = v; return a },
	},
	{
		name:    "quality",
		pattern: regexp.MustCompile(`(?i)\b(1080[pi]|720[pi]|540p|sub(bed)?|md|ld|sd|fullhd)\b`),
		store:   func(a attributes, v string) attributes { a.quality = v; return a },
	},
	{
		name:    "source",
		pattern: regexp.MustCompile(`(?i)\b(hdtv(mux)?|dvdrip|dvdscr|brrip|bdrip|bluray|web-?dl(rip)?|webrip|webisodes?|sat(rip)?)\b`),
		store:   func(a attributes, v string) attributes { a.source = v; return a },
	},
	{
		name:    "team",
		pattern: regexp.MustCompile(`(?i)\b(?:by\W?)?(` + releaseTeams + `)\b`),
		store:   func(a attributes, v string) attributes { a.team = v; return a },
	},
	{
		name:    "junk",
		pattern: regexp.MustCompile(`(?i)\b(fft|ffa|repack|rip|tvu\.org\.ru|miniserie\Wtv|tutankemule\.net|proper|bokutox|limited|anime)\b`),
	},
	{
		name:    "year",
		pattern: regexp.MustCompile(`\b((19|20)\d\d)\b`),
		store:   func(a attributes, v string) attributes { a.year = v; return a },
	},
}

// releaseTeams is the alternation of known release group tags. Alternatives
// are tried left to right at the earliest matching position.
const releaseTeams = `pir8|p&tm|killers|asap|yify|darkside(?:mux)?|novarip|newzone|idn[-_\s]crew|deimos|` +
	`dimension|eci|bst|t4p3|gly|astra|ubi|upz|tla|sid|mircrew|nahom|shortbrehd|ftp|river|sriz|` +
	`organic|bma|mt|sneaky|bluworld|c0p|immerse|2hd|remarkable|trtd[-_\s]team|hevc|psa|marge|` +
	`fum|okuto|xclusive|teampremiumcracking|rarbg|republic|winetwork-bt|ntb|hoc|evo|evolve|trl|` +
	`batv|krazy\W?karvs|juggs|dss|thepiratepimp|mtx\W?group|fqm|nikkyter|itasa|qcf|kyr|` +
	`excellence|wozzup|theking|fov|rekram|4yeo|darkman|horizon|artsubs|shiv@|playnow|lol|rev|` +
	`v3ndetta|pure\Wrg|free|gaz|playxd|axxo|alex4|xd2v|group`

// runCascade folds every rule over the initial title.
func runCascade(title string) state {
	s := state{title: title}
	for _, r := range cascade {
		s = r.apply(s)
	}
	return s
}
