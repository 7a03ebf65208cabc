// internal/app/system/limits/limits.go
package limits

// Request body size limits, enforced when decoding JSON bodies.
// These limits prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the default cap for API request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxPostBody is the cap for post create bodies, which carry
	// user-written content and run a little larger.
	MaxPostBody = 2 << 20 // 2 MB
)
