// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	notificationstore "github.com/nexushub/nexushub/internal/app/store/notifications"
	"github.com/nexushub/nexushub/internal/app/system/workers"
	"github.com/nexushub/nexushub/internal/domain/models"
)

// pruneWorker runs from Startup until Shutdown. Hooks carry no state between
// phases, so the handle lives here.
var pruneWorker *workers.NotificationPrune

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.UploadPath != "" {
		if err := os.MkdirAll(appCfg.UploadPath, 0o755); err != nil {
			return fmt.Errorf("create upload directory: %w", err)
		}
	}

	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	pruneWorker = workers.NewNotificationPrune(
		notificationstore.New(deps.NexusHubMongoDatabase),
		logger,
		1*time.Hour,
		30*24*time.Hour,
	)
	pruneWorker.Start()

	return nil
}

// ensureAdmin guarantees an admin account exists for the configured email.
// If the account already exists it is promoted to admin; otherwise a
// passwordless account is created and the owner signs in with Google.
// Running this on every startup is safe because both branches are idempotent.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := deps.NexusHubMongoDatabase.Collection("users")
	emailCI := text.Fold(email)
	now := time.Now().UTC()

	var existing models.User
	err := users.FindOne(ctx, bson.M{"email_ci": emailCI}).Decode(&existing)
	switch {
	case err == nil:
		if existing.Role == "admin" {
			return nil
		}
		_, err = users.UpdateOne(ctx,
			bson.M{"_id": existing.ID},
			bson.M{"$set": bson.M{"role": "admin", "updated_at": now}})
		if err != nil {
			return fmt.Errorf("promote admin %s: %w", email, err)
		}
		logger.Info("promoted existing user to admin", zap.String("email", email))
		return nil

	case err == mongo.ErrNoDocuments:
		admin := models.User{
			ID:                primitive.NewObjectID(),
			FullName:          "Site Admin",
			FullNameCI:        text.Fold("Site Admin"),
			Email:             email,
			EmailCI:           emailCI,
			AuthMethod:        "google",
			Role:              "admin",
			CommunityIDs:      []primitive.ObjectID{},
			BookmarkedPostIDs: []primitive.ObjectID{},
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		// A concurrent replica may create the same account; the unique
		// email_ci index makes the race harmless.
		_, err = users.InsertOne(ctx, admin)
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("create admin %s: %w", email, err)
		}
		logger.Info("created admin account", zap.String("email", email))
		return nil

	default:
		return fmt.Errorf("look up admin %s: %w", email, err)
	}
}
