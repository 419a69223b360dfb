package extractor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/phishguard/internal/core"
	"github.com/mikey/phishguard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestChain(strategies ...Strategy) *Chain {
	logger := zap.NewNop()
	if len(strategies) == 0 {
		return NewDefaultChain(logger, utils.NewTextProcessor(logger))
	}
	return NewChain(logger, utils.NewTextProcessor(logger), strategies...)
}

type stubStrategy struct {
	name string
	text string
	err  error
}

func (s stubStrategy) Name() string                        { return s.name }
func (s stubStrategy) Extract(core.Source) (string, error) { return s.text, s.err }

func TestChain_FirstNonEmptyWins(t *testing.T) {
	chain := newTestChain(
		stubStrategy{name: "blank", text: "   \n"},
		stubStrategy{name: "broken", err: errors.New("boom")},
		stubStrategy{name: "hit", text: "  Dear customer  "},
		stubStrategy{name: "late", text: "never"},
	)

	text, err := chain.Extract(context.Background(), core.Source{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Dear customer", text)
}

func TestChain_ContentNotFound(t *testing.T) {
	chain := newTestChain(stubStrategy{name: "blank"})

	_, err := chain.Extract(context.Background(), core.Source{})
	assert.ErrorIs(t, err, core.ErrContentNotFound)
}

func TestChain_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestChain().Extract(ctx, core.Source{Text: "hello"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultChain_PlainText(t *testing.T) {
	text, err := newTestChain().Extract(context.Background(), core.Source{Text: "\n Verify your account now \n"})
	require.NoError(t, err)
	assert.Equal(t, "Verify your account now", text)
}

func TestDefaultChain_HTMLPriority(t *testing.T) {
	tests := []struct {
		name string
		html string
		want []string
		not  []string
	}{
		{
			name: "primary body wins over others",
			html: `<html><body>
				<div role="textbox">draft reply</div>
				<div class="ii gt"><div class="a3s aiL"><p>Your account is locked.</p></div></div>
			</body></html>`,
			want: []string{"Your account is locked."},
			not:  []string{"draft reply"},
		},
		{
			name: "text input used when no body",
			html: `<div role="textbox">Please wire the funds today</div>`,
			want: []string{"Please wire the funds today"},
		},
		{
			name: "presentation regions concatenated",
			html: `<div role="presentation">First part</div><span>ignored</span><div role="presentation">Second part</div>`,
			want: []string{"First part", "Second part"},
			not:  []string{"ignored"},
		},
		{
			name: "class order does not matter",
			html: `<div class="aiL extra a3s">Reordered classes</div>`,
			want: []string{"Reordered classes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := newTestChain().Extract(context.Background(), core.Source{HTML: tt.html})
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, text, n)
			}
		})
	}
}

func TestDefaultChain_HTMLWithoutMessageRegion(t *testing.T) {
	_, err := newTestChain().Extract(context.Background(), core.Source{
		HTML: `<html><body><div class="inbox-list">3 unread</div></body></html>`,
	})
	assert.ErrorIs(t, err, core.ErrContentNotFound)
}

func TestPresentationRegionsInOrder(t *testing.T) {
	loc := MessageViewLocators[2]
	text, err := loc.Extract(core.Source{HTML: `<div role="presentation">one</div><div role="presentation">two</div>`})
	require.NoError(t, err)
	assert.Less(t, strings.Index(text, "one"), strings.Index(text, "two"))
}

func TestMIMEStrategy(t *testing.T) {
	t.Run("plain text part", func(t *testing.T) {
		raw := "From: security@fakebank.example\r\n" +
			"To: victim@example.com\r\n" +
			"Subject: Urgent\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" +
			"Click http://fakebank.example/verify to keep your account.\r\n"

		text, err := newTestChain().Extract(context.Background(), core.Source{MIME: []byte(raw)})
		require.NoError(t, err)
		assert.Contains(t, text, "http://fakebank.example/verify")
	})

	t.Run("html only part", func(t *testing.T) {
		raw := "From: a@example.com\r\n" +
			"Subject: Hi\r\n" +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=utf-8\r\n" +
			"\r\n" +
			"<html><body><p>Reset your <b>password</b></p></body></html>\r\n"

		text, err := MIMEStrategy{}.Extract(core.Source{MIME: []byte(raw)})
		require.NoError(t, err)
		assert.Contains(t, text, "Reset your")
		assert.Contains(t, text, "password")
	})

	t.Run("no mime source", func(t *testing.T) {
		text, err := MIMEStrategy{}.Extract(core.Source{Text: "x"})
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}
