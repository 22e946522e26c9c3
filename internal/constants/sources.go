package constants

// Source name constants for consistent usage across internal packages.
const (
	SourceEZTV          = "eztv"
	SourceNyaa          = "nyaa"
	SourceKnaben        = "knaben"
	SourceApibay        = "apibay"
	SourceTorrentsCSV   = "torrentscsv"
	SourceLeetx         = "1337x"
	SourceTorrentGalaxy = "torrentgalaxy"
)

// SourcePriority is the explicit ranking used for dedup preference and
// round-robin merge order. Lower value wins: sources with structured
// per-episode metadata come before generic aggregators, HTML scrapers last.
var SourcePriority = map[string]int{
	SourceEZTV:          0,
	SourceNyaa:          1,
	SourceKnaben:        2,
	SourceApibay:        3,
	SourceTorrentsCSV:   4,
	SourceLeetx:         5,
	SourceTorrentGalaxy: 6,
}

// NoisySources are the scraper-backed sources subject to the truncation
// quota so they can neither dominate nor vanish from a full result page.
var NoisySources = map[string]bool{
	SourceLeetx:         true,
	SourceTorrentGalaxy: true,
}
