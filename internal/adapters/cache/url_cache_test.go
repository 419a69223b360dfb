package cache

import (
	"testing"
	"time"

	"github.com/mikey/phishguard/internal/core"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func verdict(likelihood string) core.URLAnalysis {
	return core.URLAnalysis{
		SuspiciousLikelihood: likelihood,
		SuspiciousElements:   []string{"lookalike domain"},
		Explanation:          "test",
	}
}

func TestURLCache_SetGet(t *testing.T) {
	c := NewURLCache(zap.NewNop(), time.Hour, 0)
	defer c.Stop()

	_, ok := c.Get("http://fakebank.example")
	assert.False(t, ok)

	c.Set("http://fakebank.example/", verdict("High"))

	got, ok := c.Get("http://fakebank.example")
	assert.True(t, ok)
	assert.Equal(t, "High", got.SuspiciousLikelihood)
}

func TestURLCache_FallbackNotCached(t *testing.T) {
	c := NewURLCache(zap.NewNop(), time.Hour, 0)
	defer c.Stop()

	c.Set("http://a.example", core.FallbackURLAnalysis())
	assert.Equal(t, 0, c.Len())
}

func TestURLCache_Expiry(t *testing.T) {
	c := NewURLCache(zap.NewNop(), time.Minute, 0)
	defer c.Stop()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("http://a.example", verdict("Low"))
	c.Set("http://b.example", verdict("Medium"))

	now = now.Add(2 * time.Minute)
	_, ok := c.Get("http://a.example")
	assert.False(t, ok)

	c.Cleanup()
	assert.Equal(t, 0, c.Len())
}

func TestURLCache_DisabledTTL(t *testing.T) {
	c := NewURLCache(zap.NewNop(), 0, 0)
	defer c.Stop()

	c.Set("http://a.example", verdict("Low"))
	_, ok := c.Get("http://a.example")
	assert.False(t, ok)
}

func TestURLCache_StopTwice(t *testing.T) {
	c := NewURLCache(zap.NewNop(), time.Hour, time.Millisecond)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}
