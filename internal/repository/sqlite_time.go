package repository

import (
	"fmt"
	"time"
)

// sqliteTimeLayout stores timestamps as fixed-width UTC text so that string
// comparison in SQL matches chronological order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(sqliteTimeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
