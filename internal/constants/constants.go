// Package constants defines application-wide constants and default values.
package constants

const (
	// Addon metadata
	AddonID          = "flixfinder.stremio.addon"
	AddonVersion     = "1.0.0"
	AddonName        = "Flix-Finder"
	AddonDescription = "Multi-indexer torrent search with debrid resolution"

	// Default configuration values
	DefaultPort     = "3000"
	DefaultLogLevel = "info"

	// Cache settings
	DefaultCacheSize = 1000
	DefaultCacheTTL  = 24 // hours

	// Rate limiting (requests per second, burst)
	CinemetaRateLimit = 20
	CinemetaRateBurst = 5
	DebridRateLimit   = 10
	DebridRateBurst   = 2
	IndexerRateLimit  = 5
	IndexerRateBurst  = 2
)

// DefaultMaxResults is the result page size applied when a user
// configuration does not specify one.
const DefaultMaxResults = 10

// QualityTiers lists the recognized quality tokens in descending order.
var QualityTiers = []string{
	"2160p",
	"1080p",
	"720p",
	"480p",
}
