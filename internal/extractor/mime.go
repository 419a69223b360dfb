package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/jhillyerd/enmime"
	"github.com/mikey/phishguard/internal/core"
)

// MIMEStrategy reads the text body of a raw RFC 5322 message, falling back to the HTML
// body rendered as text
type MIMEStrategy struct{}

// Name implements Strategy
func (MIMEStrategy) Name() string { return "mime" }

// Extract implements Strategy
func (MIMEStrategy) Extract(src core.Source) (string, error) {
	if len(src.MIME) == 0 {
		return "", nil
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(src.MIME))
	if err != nil {
		return "", fmt.Errorf("failed to parse MIME message: %w", err)
	}

	if text := strings.TrimSpace(env.Text); text != "" {
		return text, nil
	}

	if env.HTML == "" {
		return "", nil
	}

	text, err := html2text.FromString(env.HTML)
	if err != nil {
		return "", fmt.Errorf("failed to render HTML body: %w", err)
	}
	return text, nil
}
