package utils

import (
	"net/http"
	"strconv"

	"attira/globals"
)

type QueryOptions struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return QueryOptions{
		Page:     page,
		Limit:    limit,
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
}

// GetUserIDFromRequest returns the authenticated customer id stored in the
// request context, or "" when unauthenticated.
func GetUserIDFromRequest(r *http.Request) string {
	id, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// GetAdminIDFromRequest returns the authenticated admin id, or "".
func GetAdminIDFromRequest(r *http.Request) string {
	id, ok := r.Context().Value(globals.AdminIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
