package model

import "time"

const (
	// DefaultPageSize is the fixed page size for owner-scoped listings.
	DefaultPageSize = 20

	// MaxContentBytes is the client-side content ceiling (512 KiB).
	// Content at exactly this size is accepted; one byte over is rejected
	// before any network call.
	MaxContentBytes = 512 * 1024

	// ContentWarnBytes is where the composer starts warning that the
	// content is approaching the ceiling.
	ContentWarnBytes = 400000

	// DefaultRequestTimeout bounds every API round trip.
	DefaultRequestTimeout = 15 * time.Second

	// DefaultAPIURL matches the development API server.
	DefaultAPIURL = "http://localhost:5297"

	// DefaultRecentLimit caps the public landing list.
	DefaultRecentLimit = 10
)

// AllLanguages is the sentinel meaning "no language filter".
const AllLanguages = "all"

// Languages lists the tags the composer offers.
var Languages = []string{
	"plaintext",
	"javascript",
	"typescript",
	"python",
	"java",
	"csharp",
	"html",
	"css",
	"json",
}

// ExpiryOptions lists the expiry choices the composer offers, in display order.
var ExpiryOptions = []string{"never", "1h", "24h", "7d", "30d"}

// KnownLanguage reports whether tag is one of the offered language tags.
func KnownLanguage(tag string) bool {
	for _, l := range Languages {
		if l == tag {
			return true
		}
	}
	return false
}
