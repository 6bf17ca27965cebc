package service

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// slugify lowercases the title, collapses everything that is not a letter
// or digit into single hyphens, and trims hyphens from both ends.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// threadSlug builds a unique URL slug from a title by appending the
// current timestamp in base36 plus a short random component, so two
// identical titles created in the same millisecond still diverge.
func threadSlug(title string, now time.Time) string {
	base := slugify(title)
	suffix := strconv.FormatInt(now.UnixMilli(), 36) +
		strconv.FormatInt(int64(rand.Intn(36*36*36*36)), 36)
	if base == "" {
		return suffix
	}
	const maxBaseLen = 80
	if len(base) > maxBaseLen {
		base = strings.TrimRight(base[:maxBaseLen], "-")
	}
	return base + "-" + suffix
}
