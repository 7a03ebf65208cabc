// internal/app/capability/categorize.go
package capability

import (
	"context"
	"strings"
)

// Categorization labels a piece of content.
type Categorization struct {
	Category string
	Tags     []string
}

// Categorizer assigns a category and tags to content.
type Categorizer interface {
	Categorize(ctx context.Context, content string) (Categorization, error)
}

// StaticCategorizer is the default Categorizer: a fixed keyword-to-category
// table. Unknown content lands in "general" with no tags.
type StaticCategorizer struct {
	// Table maps a lowercase keyword to its category.
	Table map[string]string
}

func (c *StaticCategorizer) Categorize(ctx context.Context, content string) (Categorization, error) {
	lowered := strings.ToLower(content)
	for keyword, category := range c.Table {
		if keyword != "" && strings.Contains(lowered, keyword) {
			return Categorization{Category: category, Tags: []string{keyword}}, nil
		}
	}
	return Categorization{Category: "general"}, nil
}
