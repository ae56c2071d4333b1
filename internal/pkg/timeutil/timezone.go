package timeutil

import (
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	QueryParam = "timezone"
	Header     = "X-User-Timezone"
)

// Resolver turns caller-supplied zone names into locations, falling back to
// a fixed default for anything it cannot load.
type Resolver struct {
	fallback *time.Location
}

// NewResolver uses defaultZone as the fallback. An unloadable default
// becomes UTC.
func NewResolver(defaultZone string) *Resolver {
	loc, err := time.LoadLocation(defaultZone)
	if err != nil || defaultZone == "" {
		loc = time.UTC
	}
	return &Resolver{fallback: loc}
}

func (r *Resolver) Default() *time.Location {
	return r.fallback
}

// Resolve never fails. Empty, unknown and "Local" names map to the default.
func (r *Resolver) Resolve(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" || name == "Local" {
		return r.fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return r.fallback
	}
	return loc
}

// Format renders t as ISO-8601 with offset in loc.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}

func FormatPtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := Format(*t, loc)
	return &s
}

// StartOfDay is local midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// StartOfMonth is local midnight of the first day of t's month in loc,
// shifted by the given number of months.
func StartOfMonth(t time.Time, loc *time.Location, shift int) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month()+time.Month(shift), 1, 0, 0, 0, 0, loc)
}
