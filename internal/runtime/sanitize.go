package runtime

import (
	"errors"
	"fmt"
	"html"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// DefaultMaxInputSize is 4KB per free-text field.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "HORNBILL_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

var stripTags = bluemonday.StrictPolicy()

const maxUnescapePasses = 8

// SanitizeText cleans traveller input: it enforces the size limit, rejects
// invalid UTF-8, strips control characters and markup, and trims whitespace.
func SanitizeText(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated so the stored text is what the traveller typed.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Keep newline, tab and carriage return; drop ESC, NUL, BEL and friends.
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	clean := b.String()

	// Each pass peels one layer of entity encoding so escaped tags cannot
	// survive as raw markup.
	for i := 0; i < maxUnescapePasses && strings.ContainsAny(clean, "<>&"); i++ {
		plain := html.UnescapeString(clean)
		if !strings.ContainsAny(plain, "<>") {
			if plain == clean {
				break
			}
			clean = plain
			continue
		}
		clean = html.UnescapeString(stripTags.Sanitize(plain))
	}
	return strings.TrimSpace(clean), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
