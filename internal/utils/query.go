package utils

import (
	"net/url"
	"strconv"
)

// QueryInt64 parses an int64 query parameter, returning def when the
// parameter is missing or malformed.
func QueryInt64(q url.Values, key string, def int64) int64 {
	v := q.Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// PathInt64 parses a URL path segment as an id.
func PathInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil && n > 0
}
