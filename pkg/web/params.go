package web

import (
	"net/http"
	"strconv"
)

// QueryPositiveInt reads an integer query parameter and returns def when the
// parameter is absent, malformed, or not a positive number.
func QueryPositiveInt(r *http.Request, key string, def int32) int32 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return def
	}
	intValue, err := strconv.ParseInt(value, 10, 32)
	if err != nil || intValue < 1 {
		return def
	}
	return int32(intValue)
}
