package lyrics

import (
	"regexp"
	"strconv"
)

var timestampPattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})`)

// ParseTimestamp converts an SRT timestamp (HH:MM:SS,mmm) to seconds.
// Values that do not start with that shape yield 0.
func ParseTimestamp(value string) float64 {
	match := timestampPattern.FindStringSubmatch(value)
	if match == nil {
		return 0
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	millis, _ := strconv.Atoi(match[4])
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000
}
