package main

import (
	"strconv"
	"strings"
	"time"
)

// HumanDuration formats d as e.g. "1h2m3s". Durations under a second are shown in milliseconds.
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}

	str := ""
	if h := d / time.Hour; h >= 1 {
		str += strconv.FormatInt(int64(h), 10) + "h"
		d = d % time.Hour
	}

	if m := d / time.Minute; m >= 1 {
		str += strconv.FormatInt(int64(m), 10) + "m"
		d = d % time.Minute
	}

	if s := d / time.Second; s >= 1 {
		str += strconv.FormatInt(int64(s), 10) + "s"
	}

	return str
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}

	return string(r[:max(n-1, 0)]) + "…"
}
