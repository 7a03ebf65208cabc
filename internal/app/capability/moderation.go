// internal/app/capability/moderation.go

// Package capability declares the external collaborators the app consumes as
// black boxes: content moderation, content categorization, and file storage.
// Handlers depend only on these contracts; the default implementations here
// are local stand-ins suitable for development and tests.
package capability

import (
	"context"
	"strings"
)

// Verdict is a moderation decision for a piece of content.
type Verdict struct {
	IsFlagged bool
	Reason    string
}

// Moderator decides whether content violates policy.
type Moderator interface {
	Moderate(ctx context.Context, content string) (Verdict, error)
}

// KeywordModerator is the default Moderator: it flags content containing any
// configured term. A production deployment swaps in a client for the real
// moderation service.
type KeywordModerator struct {
	Terms []string
}

func (m *KeywordModerator) Moderate(ctx context.Context, content string) (Verdict, error) {
	lowered := strings.ToLower(content)
	for _, term := range m.Terms {
		if term != "" && strings.Contains(lowered, strings.ToLower(term)) {
			return Verdict{IsFlagged: true, Reason: "contains blocked term"}, nil
		}
	}
	return Verdict{}, nil
}
