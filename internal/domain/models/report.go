// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report statuses. The transition is one-way: pending may move to either
// reviewed status, and a reviewed report can never return to pending.
const (
	ReportPending     = "pending"
	ReportActionTaken = "reviewed_action_taken"
	ReportNoAction    = "reviewed_no_action"
)

// Report target types.
const (
	ReportTargetPost    = "post"
	ReportTargetComment = "comment"
	ReportTargetUser    = "user"
)

// Report is a user-filed complaint about a post, comment, or user.
type Report struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReporterID primitive.ObjectID `bson:"reporter_id" json:"reporter_id"`
	TargetType string             `bson:"target_type" json:"target_type"` // post | comment | user
	TargetID   primitive.ObjectID `bson:"target_id" json:"target_id"`
	Reason     string             `bson:"reason" json:"reason"`

	Status      string              `bson:"status" json:"status"`
	ReviewNotes string              `bson:"review_notes,omitempty" json:"review_notes,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ValidReviewStatus reports whether s is a legal terminal review status.
func ValidReviewStatus(s string) bool {
	return s == ReportActionTaken || s == ReportNoAction
}

// ValidReportTarget reports whether t is a known target type.
func ValidReportTarget(t string) bool {
	return t == ReportTargetPost || t == ReportTargetComment || t == ReportTargetUser
}
