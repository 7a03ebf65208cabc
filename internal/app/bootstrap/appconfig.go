// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds NexusHub-specific configuration.
//
// WAFFLE's CoreConfig covers framework-level settings (ports, TLS, log
// level, env); AppConfig is everything specific to this service. The
// struct is passed to most lifecycle hooks, so anything needed during
// startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management
	SessionKey    string // secret for signing session cookies
	SessionName   string // cookie name
	SessionDomain string // cookie domain (blank means current host)

	// Public URLs
	BaseURL     string // this server's public URL (OAuth callbacks)
	FrontendURL string // the browser app's origin (CORS, redirects)

	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string

	// Upload storage (served from UploadURL, written under UploadPath)
	UploadPath string
	UploadURL  string

	// Content moderation: comma-separated blocked terms for the default
	// keyword moderator.
	ModerationTerms string

	// Global API rate limit (requests per IP per minute).
	APIRateLimit int

	// AdminEmail promotes (or creates) the named account as a site
	// admin on startup.
	AdminEmail string
}
