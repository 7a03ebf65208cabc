// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for NexusHub, loaded via
// WAFFLE's config system:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: NEXUSHUB_MONGO_URI, NEXUSHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "nexus_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "nexushub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	{Name: "base_url", Default: "http://localhost:8080", Desc: "This server's public URL (OAuth callbacks)"},
	{Name: "frontend_url", Default: "http://localhost:3000", Desc: "Browser app origin (CORS, post-login redirects)"},

	{Name: "google_client_id", Default: "", Desc: "Google OAuth2 client ID"},
	{Name: "google_client_secret", Default: "", Desc: "Google OAuth2 client secret"},

	{Name: "upload_path", Default: "./uploads", Desc: "Local storage path for uploaded files"},
	{Name: "upload_url", Default: "/files", Desc: "URL prefix for serving uploaded files"},

	{Name: "moderation_terms", Default: "", Desc: "Comma-separated blocked terms for the keyword moderator"},
	{Name: "api_rate_limit", Default: 120, Desc: "API requests allowed per IP per minute"},

	{Name: "admin_email", Default: "", Desc: "Email of the site admin (promotes/creates on startup)"},
}

// LoadConfig loads WAFFLE core config and app-specific config. It is
// called early in startup so both layers have configuration before any
// backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "NEXUSHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		BaseURL:     appValues.String("base_url"),
		FrontendURL: appValues.String("frontend_url"),

		GoogleClientID:     appValues.String("google_client_id"),
		GoogleClientSecret: appValues.String("google_client_secret"),

		UploadPath: appValues.String("upload_path"),
		UploadURL:  appValues.String("upload_url"),

		ModerationTerms: appValues.String("moderation_terms"),
		APIRateLimit:    appValues.Int("api_rate_limit"),

		AdminEmail: appValues.String("admin_email"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig enforces app-level invariants before startup proceeds.
// The MongoDB URI is checked here to catch configuration errors before
// attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.APIRateLimit < 1 {
		return fmt.Errorf("api_rate_limit must be at least 1, got %d", appCfg.APIRateLimit)
	}
	return nil
}
