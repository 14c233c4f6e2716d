// Package duration normalises episode durations such as "1:02:03.5".
package duration

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	FormatHMS          = "HH:MM:SS"
	FormatHMSMillis    = "HH:MM:SS.mmm"
	FormatSeconds      = "seconds"
	FormatMilliseconds = "ms"
)

type Duration struct {
	millis int64
	valid  bool
}

// Parse accepts "S", "M:S" and "H:M:S", each with an optional fractional
// part. Anything else yields an invalid Duration.
func Parse(s string) Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return Duration{}
	}

	whole, frac, _ := strings.Cut(s, ".")
	parts := strings.Split(whole, ":")
	if len(parts) > 3 {
		return Duration{}
	}

	var seconds int64
	for _, part := range parts {
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil || n < 0 {
			return Duration{}
		}
		seconds = seconds*60 + n
	}

	var millis int64
	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return Duration{}
		}
		millis = n
	}

	return Duration{millis: seconds*1000 + millis, valid: true}
}

func FromMillis(ms int64) Duration {
	if ms < 0 {
		return Duration{}
	}
	return Duration{millis: ms, valid: true}
}

func (d Duration) Valid() bool {
	return d.valid
}

func (d Duration) Millis() int64 {
	return d.millis
}

func (d Duration) Seconds() int64 {
	return d.millis / 1000
}

// Format renders the duration; invalid durations render as "". Unknown
// formats fall back to HH:MM:SS.
func (d Duration) Format(format string) string {
	if !d.valid {
		return ""
	}

	hours := d.millis / 3600000
	minutes := d.millis / 60000 % 60
	seconds := d.millis / 1000 % 60
	millis := d.millis % 1000

	switch format {
	case FormatHMSMillis:
		return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
	case FormatSeconds:
		return strconv.FormatInt(d.Seconds(), 10)
	case FormatMilliseconds:
		return strconv.FormatInt(d.millis, 10)
	default:
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
}
