// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"time"

	"github.com/nexushub/nexushub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func normalize(e *models.Event) {
	if e.RSVPIDs == nil {
		e.RSVPIDs = []primitive.ObjectID{}
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	normalize(&e)
	return e, nil
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.RSVPIDs = []primitive.ObjectID{}
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// AddRSVP adds userID to rsvp_ids with the capacity guard in the update
// filter, so two concurrent RSVPs for the last slot cannot both land: the
// loser's filter no longer matches. Returns (changed, matched). matched is
// false when the event is full (or gone) at write time.
func (s *Store) AddRSVP(ctx context.Context, eventID, userID primitive.ObjectID) (changed, matched bool, err error) {
	filter := bson.M{
		"_id": eventID,
		"$expr": bson.M{"$or": bson.A{
			bson.M{"$lte": bson.A{"$max_attendees", 0}},
			bson.M{"$lt": bson.A{bson.M{"$size": "$rsvp_ids"}, "$max_attendees"}},
			// An existing RSVP always matches so the repeat is a no-op,
			// not a spurious "event full".
			bson.M{"$in": bson.A{userID, "$rsvp_ids"}},
		}},
	}
	// No updated_at bump here: a repeat RSVP must leave the document
	// untouched so ModifiedCount reflects the set change alone.
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$addToSet": bson.M{"rsvp_ids": userID},
	})
	if err != nil {
		return false, false, err
	}
	return res.ModifiedCount > 0, res.MatchedCount > 0, nil
}

// RemoveRSVP pulls userID from rsvp_ids. Returns true when the set changed.
func (s *Store) RemoveRSVP(ctx context.Context, eventID, userID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": eventID, "rsvp_ids": userID},
		bson.M{
			"$pull": bson.M{"rsvp_ids": userID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
