package metadata

import (
	"time"
)

// IPFSScheme prefixes content identifiers in emitted URLs.
const IPFSScheme = "ipfs://"

// indefinite is displayed for a zero (open-ended) timestamp.
const indefinite = "Indefinite"

// Datify renders a Unix timestamp as a UTC calendar date (YYYY-MM-DD).
// Zero means open-ended and renders as "Indefinite".
func Datify(ts int64) string {
	if ts == 0 {
		return indefinite
	}

	return time.Unix(ts, 0).UTC().Format(time.DateOnly)
}

// Timeframe renders a start/end pair as "<start> → <end>".
func Timeframe(start, end int64) string {
	return Datify(start) + " → " + Datify(end)
}

// ShortenAddress abbreviates a wallet address to its first six and last
// four characters. Addresses of ten characters or fewer are returned as is.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}

	return address[:6] + "..." + address[len(address)-4:]
}
