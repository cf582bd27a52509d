package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getUserID
    "strconv" // strconv converts strings to numeric types
    "strings" // strings provides trimming helpers
    "time"    // time parsing for wire timestamps

    "github.com/labstack/echo/v4" // echo defines request context types
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// Wire timestamps are ISO-8601 local-time strings without zone offsets.
// Seconds are optional on input; output always carries them.
const (
    wireTimeLayout      = "2006-01-02T15:04:05"
    wireTimeShortLayout = "2006-01-02T15:04"
)

// parseWireTime parses an ISO-8601 local timestamp, accepting both the
// seconds and minutes precision forms.
func parseWireTime(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if t, err := time.Parse(wireTimeLayout, s); err == nil {
        return t, nil
    }
    t, err := time.Parse(wireTimeShortLayout, s)
    if err != nil {
        return time.Time{}, errors.New("invalid timestamp: " + s)
    }
    return t, nil
}

// formatWireTime renders a timestamp in the wire layout.
func formatWireTime(t time.Time) string {
    return t.Format(wireTimeLayout)
}

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// The JWT middleware stores the raw claim, which the jwt library decodes as
// float64 for numeric subjects.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}
