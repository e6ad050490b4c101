package routine

import (
	"strconv"
	"strings"
)

// FormatText renders plan as "Day N:" headers followed by "- exercise" lines, with a blank line between days.
func FormatText(plan Plan) string {
	var b strings.Builder
	for i, day := range plan {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Day ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(":")
		for _, d := range day {
			b.WriteString("\n- ")
			b.WriteString(d.String())
		}
	}
	return b.String()
}

// Strings returns the text form of every exercise of the day.
func (d Day) Strings() []string {
	out := make([]string, len(d))
	for i, e := range d {
		out[i] = e.String()
	}
	return out
}
