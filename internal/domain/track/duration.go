package track

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// FormatDuration renders milliseconds as "M:SS".
func FormatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := ms / 1000
	return fmt.Sprintf("%d:%02d", totalSec/60, totalSec%60)
}

// ParseDuration parses a "M:SS" display string.
func ParseDuration(s string) (time.Duration, error) {
	minPart, secPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, errors.Newf("invalid duration %q", s)
	}
	minutes, err := strconv.Atoi(minPart)
	if err != nil || minutes < 0 {
		return 0, errors.Newf("invalid duration minutes %q", s)
	}
	seconds, err := strconv.Atoi(secPart)
	if err != nil || len(secPart) != 2 || seconds < 0 || seconds > 59 {
		return 0, errors.Newf("invalid duration seconds %q", s)
	}
	return time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, nil
}
