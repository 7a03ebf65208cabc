// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-generated content
// before it is stored. Post bodies, comments, and community descriptions all
// pass through Sanitize at the write boundary.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// policy is bluemonday's UGC policy: basic formatting and links survive,
// scripts, event handlers, and javascript: URLs do not.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	return p
}()

// Sanitize returns s with unsafe HTML removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
