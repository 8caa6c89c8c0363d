package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxTopicLen   = 80
	fallbackTopic = "Misc"
	summaryHeader = "## AI Summary"
)

// SanitizeTopic keeps letters, digits, spaces, hyphens and underscores, trims
// the result and caps it at 80 characters. An empty result becomes "Misc".
func SanitizeTopic(topic string) string {
	var b strings.Builder
	for _, r := range topic {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := []rune(strings.TrimSpace(b.String()))
	if len(clean) > maxTopicLen {
		clean = clean[:maxTopicLen]
	}
	if len(clean) == 0 {
		return fallbackTopic
	}
	return string(clean)
}

// WithSummary prefixes content with an AI summary block. An empty summary
// leaves content unchanged.
func WithSummary(content, summary string) string {
	if summary == "" {
		return content
	}
	return summaryHeader + "\n\n" + summary + "\n\n" + content
}

// Place writes content to destDir under the source's file name, creating
// destDir if needed, and removes src only once the write succeeded. Returns the
// written path.
func Place(src, content, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}

	dest := filepath.Join(destDir, filepath.Base(src))
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := os.Remove(src); err != nil {
		return dest, fmt.Errorf("removing %s: %w", src, err)
	}
	return dest, nil
}
