package sources

import (
	"encoding/base32"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	hexHashRegex    = regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	base32HashRegex = regexp.MustCompile(`^[a-zA-Z2-7]{32}$`)
	magnetHashRegex = regexp.MustCompile(`(?i)urn:btih:([a-zA-Z0-9]{32,40})`)
)

// NormalizeInfoHash validates an info hash and returns its canonical
// 40-character lower-case hex form. 32-character base32 hashes (alphabet
// A-Z2-7, 5 bits per symbol) are converted. Anything else yields "".
func NormalizeInfoHash(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case hexHashRegex.MatchString(raw):
		return strings.ToLower(raw)
	case base32HashRegex.MatchString(raw):
		decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(raw))
		if err != nil || len(decoded) != 20 {
			return ""
		}
		return hex.EncodeToString(decoded)
	default:
		return ""
	}
}

// ExtractInfoHash pulls the info hash out of a magnet URI, normalized to
// lower-case hex. Returns "" when the URI carries no usable hash.
func ExtractInfoHash(magnet string) string {
	m := magnetHashRegex.FindStringSubmatch(magnet)
	if m == nil {
		return ""
	}
	return NormalizeInfoHash(m[1])
}
