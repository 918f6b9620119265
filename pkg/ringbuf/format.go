package ringbuf

import (
	"fmt"
	"strings"
)

const (
	// displayLimit is the number of rendered values above which the output is shortened.
	displayLimit = 8
	displayEdge  = 3
	emptyMarker  = "NULL"
)

// render formats name([a, b, ...], fields...). If the list is truncated and
// withLen is set, len=n is added in front of fields.
func render(name string, items []string, withLen bool, fields ...string) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("([")
	truncated := len(items) > displayLimit
	if truncated {
		shown := make([]string, 0, 2*displayEdge+1)
		shown = append(shown, items[:displayEdge]...)
		shown = append(shown, "...")
		shown = append(shown, items[len(items)-displayEdge:]...)
		b.WriteString(strings.Join(shown, ", "))
	} else {
		b.WriteString(strings.Join(items, ", "))
	}
	b.WriteString("]")
	if truncated && withLen {
		fmt.Fprintf(&b, ", len=%d", len(items))
	}
	for _, f := range fields {
		b.WriteString(", ")
		b.WriteString(f)
	}
	b.WriteString(")")
	return b.String()
}

func formatValues[T any](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprint(v)
	}
	return out
}

// formatSlots renders every physical slot starting at start, empty ones as NULL.
func formatSlots[T any](r *ring[T], start int) []string {
	out := make([]string, 0, r.capacity())
	r.each(start, func(_ int, s slot[T]) bool {
		if s.ok {
			out = append(out, fmt.Sprint(s.value))
		} else {
			out = append(out, emptyMarker)
		}
		return true
	})
	return out
}
