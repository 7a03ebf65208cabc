// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"time"

	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	var r models.Report
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, r models.Report) (models.Report, error) {
	r.ID = primitive.NewObjectID()
	r.Status = models.ReportPending
	r.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Report{}, err
	}
	return r, nil
}

// ListByStatus returns reports in a status, oldest first (review queue order).
func (s *Store) ListByStatus(ctx context.Context, status string, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Finalize transitions a pending report to a terminal status. The pending
// guard lives in the update filter: a report that is no longer pending
// matches nothing, so concurrent reviews cannot both win and review_notes /
// reviewed_at of the first review are never overwritten. Returns true when
// the transition was applied.
func (s *Store) Finalize(ctx context.Context, id primitive.ObjectID, status, notes string, reviewerID primitive.ObjectID) (bool, error) {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ReportPending},
		bson.M{"$set": bson.M{
			"status":       status,
			"review_notes": notes,
			"reviewed_by":  reviewerID,
			"reviewed_at":  now,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
