// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/nexushub/nexushub/internal/app/capability"
	authgooglefeature "github.com/nexushub/nexushub/internal/app/features/authgoogle"
	communitiesfeature "github.com/nexushub/nexushub/internal/app/features/communities"
	eventsfeature "github.com/nexushub/nexushub/internal/app/features/events"
	feedfeature "github.com/nexushub/nexushub/internal/app/features/feed"
	healthfeature "github.com/nexushub/nexushub/internal/app/features/health"
	loginfeature "github.com/nexushub/nexushub/internal/app/features/login"
	logoutfeature "github.com/nexushub/nexushub/internal/app/features/logout"
	notificationsfeature "github.com/nexushub/nexushub/internal/app/features/notifications"
	postsfeature "github.com/nexushub/nexushub/internal/app/features/posts"
	reportsfeature "github.com/nexushub/nexushub/internal/app/features/reports"
	uploadsfeature "github.com/nexushub/nexushub/internal/app/features/uploads"
	userinfofeature "github.com/nexushub/nexushub/internal/app/features/userinfo"
	userstore "github.com/nexushub/nexushub/internal/app/store/users"
	"github.com/nexushub/nexushub/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. NexusHub is a JSON API for a browser
// frontend, so the router applies CORS for the frontend origin, a per-IP
// rate limit, and session middleware, then mounts the feature routers under
// /api.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so role
	// changes and deleted accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.NexusHubMongoDatabase, logger))

	db := deps.NexusHubMongoDatabase

	// External collaborator defaults. Production deployments swap these for
	// real service clients without touching the handlers.
	moderator := &capability.KeywordModerator{Terms: splitTerms(appCfg.ModerationTerms)}
	categorizer := &capability.StaticCategorizer{Table: map[string]string{
		"game":    "gaming",
		"movie":   "film",
		"music":   "music",
		"recipe":  "cooking",
		"travel":  "travel",
		"code":    "technology",
		"fitness": "health",
	}}
	files := &capability.LocalFileStore{BasePath: appCfg.UploadPath, URLPrefix: appCfg.UploadURL}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{appCfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(appCfg.APIRateLimit, time.Minute))

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.NexusHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Uploaded files are served straight from disk with pre-compressed
	// file support.
	r.Handle(appCfg.UploadURL+"/*", fileserver.Handler(appCfg.UploadURL, appCfg.UploadPath))

	r.Route("/api", func(api chi.Router) {
		// Authentication
		loginHandler := loginfeature.NewHandler(db, sessionMgr, logger)
		loginfeature.Routes(loginHandler, api)

		logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
		api.Post("/logout", logoutHandler.Serve)

		userinfoHandler := userinfofeature.NewHandler(db, logger)
		api.Get("/me", userinfoHandler.Serve)

		googleHandler := authgooglefeature.NewHandler(db, sessionMgr,
			appCfg.GoogleClientID, appCfg.GoogleClientSecret,
			appCfg.BaseURL, appCfg.FrontendURL, logger)
		if googleHandler.IsConfigured() {
			api.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
		} else {
			logger.Info("Google sign-in disabled: no client credentials configured")
		}

		// Communities, posts, events
		communitiesHandler := communitiesfeature.NewHandler(db, categorizer, logger)
		api.Mount("/communities", communitiesfeature.Routes(communitiesHandler, sessionMgr))

		postsHandler := postsfeature.NewHandler(db, moderator, categorizer, logger)
		api.Mount("/posts", postsfeature.Routes(postsHandler, sessionMgr))

		eventsHandler := eventsfeature.NewHandler(db, logger)
		api.Mount("/events", eventsfeature.Routes(eventsHandler, sessionMgr))

		// Personalized feed
		feedHandler := feedfeature.NewHandler(db, logger)
		api.Mount("/feed", feedfeature.Routes(feedHandler, sessionMgr))

		// Moderation reports
		reportsHandler := reportsfeature.NewHandler(db, logger)
		api.Mount("/reports", reportsfeature.Routes(reportsHandler, sessionMgr))

		// Notification inbox
		notificationsHandler := notificationsfeature.NewHandler(db, logger)
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler, sessionMgr))

		// File uploads
		uploadsHandler := uploadsfeature.NewHandler(files, logger)
		api.Mount("/uploads", uploadsfeature.Routes(uploadsHandler, sessionMgr))
	})

	return r, nil
}

// splitTerms parses the comma-separated moderation term list from config.
func splitTerms(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
