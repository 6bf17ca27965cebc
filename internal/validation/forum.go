package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Length limits for user-authored forum content.
const (
	ThreadTitleMinLen     = 5
	ThreadTitleMaxLen     = 200
	ThreadContentMinLen   = 10
	ThreadContentMaxLen   = 50000
	PostContentMinLen     = 5
	PostContentMaxLen     = 50000
	ShoutboxContentMaxLen = 500
	MessageContentMaxLen  = 5000
)

var categorySlugRegex = regexp.MustCompile(`^[a-z0-9-]{2,50}$`)

var reservedCategorySlugs = map[string]struct{}{
	"admin":         {},
	"api":           {},
	"auth":          {},
	"search":        {},
	"settings":      {},
	"categories":    {},
	"threads":       {},
	"posts":         {},
	"users":         {},
	"messages":      {},
	"conversations": {},
	"shoutbox":      {},
	"ws":            {},
	"metrics":       {},
	"login":         {},
	"signup":        {},
}

// ValidateCategorySlug validates category slug format and reserved names.
// The announcements slug is reserved too, but it is created by the system
// itself, so callers creating it bypass this check.
func ValidateCategorySlug(slug string) error {
	if !categorySlugRegex.MatchString(slug) {
		return fmt.Errorf("slug must be 2-50 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return fmt.Errorf("slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCategorySlugs[slug]; exists {
		return fmt.Errorf("slug is reserved")
	}

	return nil
}

// ValidateThreadTitle checks thread title length bounds.
func ValidateThreadTitle(title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n < ThreadTitleMinLen {
		return fmt.Errorf("title must be at least %d characters long", ThreadTitleMinLen)
	}
	if n > ThreadTitleMaxLen {
		return fmt.Errorf("title must not exceed %d characters", ThreadTitleMaxLen)
	}
	return nil
}

// ValidateThreadContent checks thread body length bounds.
func ValidateThreadContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < ThreadContentMinLen {
		return fmt.Errorf("content must be at least %d characters long", ThreadContentMinLen)
	}
	if n > ThreadContentMaxLen {
		return fmt.Errorf("content must not exceed %d characters", ThreadContentMaxLen)
	}
	return nil
}

// ValidatePostContent checks reply body length bounds.
func ValidatePostContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n < PostContentMinLen {
		return fmt.Errorf("reply must be at least %d characters long", PostContentMinLen)
	}
	if n > PostContentMaxLen {
		return fmt.Errorf("reply must not exceed %d characters", PostContentMaxLen)
	}
	return nil
}

// ValidateShoutboxContent checks shoutbox message length bounds.
func ValidateShoutboxContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > ShoutboxContentMaxLen {
		return fmt.Errorf("message must not exceed %d characters", ShoutboxContentMaxLen)
	}
	return nil
}

// ValidateMessageContent checks direct message length bounds.
func ValidateMessageContent(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MessageContentMaxLen {
		return fmt.Errorf("message must not exceed %d characters", MessageContentMaxLen)
	}
	return nil
}
