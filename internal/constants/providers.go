package constants

// Debrid provider ids for consistent usage across internal packages.
const (
	ProviderRealDebrid = "realdebrid"
	ProviderAllDebrid  = "alldebrid"
	ProviderTorbox     = "torbox"
	ProviderDebridLink = "debridlink"
	ProviderPremiumize = "premiumize"
	ProviderOffcloud   = "offcloud"
	ProviderPutio      = "putio"
	ProviderEasyDebrid = "easydebrid"
)

// ProviderBadges map provider ids to the short badge shown in stream titles.
var ProviderBadges = map[string]string{
	ProviderRealDebrid: "RD",
	ProviderAllDebrid:  "AD",
	ProviderTorbox:     "TB",
	ProviderDebridLink: "DL",
	ProviderPremiumize: "PM",
	ProviderOffcloud:   "OC",
	ProviderPutio:      "PUT",
	ProviderEasyDebrid: "ED",
}

// ProviderHomeURLs are the fallback links used by the synthesized error
// entry when every resolution in a batch fails.
var ProviderHomeURLs = map[string]string{
	ProviderRealDebrid: "https://real-debrid.com",
	ProviderAllDebrid:  "https://alldebrid.com",
	ProviderTorbox:     "https://torbox.app",
	ProviderDebridLink: "https://debrid-link.com",
	ProviderPremiumize: "https://premiumize.me",
	ProviderOffcloud:   "https://offcloud.com",
	ProviderPutio:      "https://put.io",
	ProviderEasyDebrid: "https://easydebrid.com",
}
