// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the default number of rows in paged lists (feed pages,
// notification lists). Call sites add one for look-ahead and cast to int64
// for Mongo Find().SetLimit().
const PageSize = 20

// MaxPageSize caps a client-requested page size.
const MaxPageSize = 100

// ParseLimit extracts the "limit" query parameter, clamped to
// [1, MaxPageSize]. Returns PageSize if absent or invalid.
func ParseLimit(r *http.Request) int64 {
	s := query.Get(r, "limit")
	if s == "" {
		return PageSize
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return PageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return int64(n)
}

// ParseBefore extracts the "before" keyset cursor (a document id hex).
// Returns the zero ObjectID for the first page or a malformed cursor;
// a bad cursor degrades to page one rather than erroring.
func ParseBefore(r *http.Request) primitive.ObjectID {
	s := query.Get(r, "before")
	if s == "" {
		return primitive.NilObjectID
	}
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID
	}
	return oid
}

// Result holds the output of TrimPage for keyset pagination.
type Result struct {
	HasNext    bool
	NextCursor string
}

// TrimPage trims a slice fetched with limit+1 look-ahead rows in place and
// reports whether another page exists. cursorOf extracts the keyset cursor
// from the last visible row.
func TrimPage[T any](rows *[]T, limit int64, cursorOf func(T) string) Result {
	if int64(len(*rows)) <= limit {
		return Result{}
	}
	*rows = (*rows)[:limit]
	if len(*rows) == 0 {
		return Result{}
	}
	return Result{
		HasNext:    true,
		NextCursor: cursorOf((*rows)[len(*rows)-1]),
	}
}
