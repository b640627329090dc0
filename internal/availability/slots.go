// Package availability computes the bookable time slots of a business day.
package availability

import (
	"strings"
	"time"
)

const (
	slotLayout = "15:04"
	openHour   = 9
	closeHour  = 18
	slotStep   = 30 * time.Minute
)

var daySlots = buildDay()

func buildDay() []string {
	start := time.Date(2000, 1, 1, openHour, 0, 0, 0, time.UTC)
	end := time.Date(2000, 1, 1, closeHour, 0, 0, 0, time.UTC)
	var out []string
	for t := start; t.Before(end); t = t.Add(slotStep) {
		out = append(out, t.Format(slotLayout))
	}
	return out
}

// All returns every slot of the business day in ascending order.
func All() []string {
	out := make([]string, len(daySlots))
	copy(out, daySlots)
	return out
}

// Normalize parses a time such as "9:00" or "09:00" and returns its
// canonical zero-padded form. ok is false when s is not one of the day's
// slots.
func Normalize(s string) (string, bool) {
	// the hour field accepts one or two digits
	t, err := time.Parse(slotLayout, strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	c := t.Format(slotLayout)
	if !IsSlot(c) {
		return "", false
	}
	return c, true
}

// IsSlot reports whether s is a canonical slot of the business day.
func IsSlot(s string) bool {
	for _, v := range daySlots {
		if v == s {
			return true
		}
	}
	return false
}

// FreeSlots returns the day's slots minus occupied, in ascending order.
// Entries of occupied that are not slots are ignored; their order does
// not matter.
func FreeSlots(occupied []string) []string {
	taken := make(map[string]struct{}, len(occupied))
	for _, o := range occupied {
		if c, ok := Normalize(o); ok {
			taken[c] = struct{}{}
		}
	}
	free := make([]string, 0, len(daySlots))
	for _, s := range daySlots {
		if _, ok := taken[s]; !ok {
			free = append(free, s)
		}
	}
	return free
}
