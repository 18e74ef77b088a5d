package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/types"
	"shopsite_server/internal/utils"
)

type stubCopy struct {
	body string
	err  error
}

func (s stubCopy) WriteCopy(context.Context, types.ShopInputs) (string, error) {
	return s.body, s.err
}

// stubImages fails the first failures[prompt] calls for a prompt, then succeeds.
// Each call takes delay.
type stubImages struct {
	mu       sync.Mutex
	calls    map[string]int
	failures map[string]int
	always   bool
	delay    time.Duration
	starts   []time.Time
	ends     []time.Time
}

func (s *stubImages) GenerateImage(_ context.Context, prompt, _ string) (string, error) {
	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[prompt]++
	s.starts = append(s.starts, time.Now())
	fail := s.always || s.calls[prompt] <= s.failures[prompt]
	n := len(s.calls)
	s.mu.Unlock()

	time.Sleep(s.delay)

	s.mu.Lock()
	s.ends = append(s.ends, time.Now())
	s.mu.Unlock()
	if fail {
		return "", errors.New("quota exceeded")
	}
	return fmt.Sprintf("data:image/png;base64,IMG%d", n), nil
}

func fastOptions(v prompts.Variant) Options {
	return Options{
		Variant:     v,
		ImagePolicy: utils.RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond},
		Throttle:    time.Millisecond,
	}
}

const fixedCopy = `{
  "hero": {"heading": "The Gentlemen's Lounge | Beverly Hills, CA", "tagline": "Sharp"},
  "about": {"heading": "Our Craft", "paragraphs": ["One.", "Two."]},
  "services": [
    {"title": "Haircuts", "subtitle": "Classic", "description": "Cut."},
    {"title": "Beard Styling", "subtitle": "Shape", "description": "Beard."},
    {"title": "Traditional Shave", "subtitle": "Hot towel", "description": "Shave."},
    {"title": "Precision Fade", "subtitle": "Skin", "description": "Fade."}
  ],
  "contact": {"email": "hello@lounge.com", "address": "1 Rodeo Dr, Beverly Hills, CA"}
}`

var lounge = types.ShopInputs{ShopName: "The Gentlemen's Lounge", Area: "Beverly Hills, CA", Phone: "+1 234 567 8900"}

func TestGenerateImages_RetryThenSuccess(t *testing.T) {
	slots := prompts.ImagePrompts(prompts.VariantQuick, lounge.ShopName, lounge.Area)
	imgs := &stubImages{failures: map[string]int{slots[1].Text: 1}}
	gen := NewGenerator(stubCopy{}, imgs, fastOptions(prompts.VariantFull), zaptest.NewLogger(t))

	got := gen.GenerateImages(context.Background(), slots)

	require.Len(t, got, 3)
	for _, img := range got {
		assert.NotEmpty(t, img)
	}
	assert.Equal(t, 2, imgs.calls[slots[1].Text])
	assert.NotEqual(t, got[0], got[1], "retried slot should carry its own image")
}

func TestGenerateImages_AlwaysFailingYieldsEmptySlots(t *testing.T) {
	slots := prompts.ImagePrompts(prompts.VariantFull, lounge.ShopName, lounge.Area)
	imgs := &stubImages{always: true}
	gen := NewGenerator(stubCopy{}, imgs, fastOptions(prompts.VariantFull), zaptest.NewLogger(t))

	got := gen.GenerateImages(context.Background(), slots)

	require.Len(t, got, 8)
	for _, img := range got {
		assert.Equal(t, "", img)
	}
	for _, s := range slots {
		assert.Equal(t, 2, imgs.calls[s.Text])
	}
}

func TestGenerateImages_FailedSlotReusesFirstSuccess(t *testing.T) {
	slots := prompts.ImagePrompts(prompts.VariantQuick, lounge.ShopName, lounge.Area)
	imgs := &stubImages{failures: map[string]int{slots[2].Text: 5}}
	gen := NewGenerator(stubCopy{}, imgs, fastOptions(prompts.VariantQuick), zaptest.NewLogger(t))

	got := gen.GenerateImages(context.Background(), slots)

	require.Len(t, got, 3)
	assert.NotEmpty(t, got[0])
	assert.Equal(t, got[0], got[2])
}

func TestGenerateImages_SequentialThrottleFollowsSlowCalls(t *testing.T) {
	slots := prompts.ImagePrompts(prompts.VariantQuick, lounge.ShopName, lounge.Area)
	imgs := &stubImages{delay: 40 * time.Millisecond}
	opts := fastOptions(prompts.VariantFull)
	opts.Throttle = 25 * time.Millisecond
	gen := NewGenerator(stubCopy{}, imgs, opts, zaptest.NewLogger(t))

	gen.GenerateImages(context.Background(), slots)

	require.Len(t, imgs.starts, 3)
	require.Len(t, imgs.ends, 3)
	for i := 1; i < len(imgs.starts); i++ {
		gap := imgs.starts[i].Sub(imgs.ends[i-1])
		assert.GreaterOrEqual(t, gap, opts.Throttle, "gap before prompt %d", i)
	}
}

func TestGenerateImages_CancelDuringThrottleStops(t *testing.T) {
	slots := prompts.ImagePrompts(prompts.VariantQuick, lounge.ShopName, lounge.Area)
	imgs := &stubImages{}
	opts := fastOptions(prompts.VariantFull)
	opts.Throttle = time.Hour
	gen := NewGenerator(stubCopy{}, imgs, opts, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	got := gen.GenerateImages(ctx, slots)

	require.Len(t, got, 3)
	assert.Len(t, imgs.starts, 1)
	assert.NotEmpty(t, got[0])
	assert.Equal(t, got[0], got[2])
}

func TestGenerateSite_EndToEnd(t *testing.T) {
	imgs := &stubImages{}
	gen := NewGenerator(stubCopy{body: fixedCopy}, imgs, fastOptions(prompts.VariantQuick), zaptest.NewLogger(t))

	data, err := gen.GenerateSite(context.Background(), lounge)
	require.NoError(t, err)

	assert.Contains(t, data.Hero.Heading, "The Gentlemen's Lounge")
	assert.Contains(t, data.Hero.Heading, "Beverly Hills, CA")
	assert.Len(t, data.Gallery, 3)
	require.Len(t, data.Services, 4)
	assert.Equal(t, types.IconFace, data.Services[3].Icon)
	assert.Equal(t, "hello@lounge.com", data.Contact.Email)
}

func TestGenerateSite_CopyFailureAborts(t *testing.T) {
	gen := NewGenerator(stubCopy{err: errors.New("invalid argument")}, &stubImages{}, fastOptions(prompts.VariantQuick), zaptest.NewLogger(t))

	_, err := gen.GenerateSite(context.Background(), lounge)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthenticated))
}

func TestGenerateSite_AuthFailureIsTagged(t *testing.T) {
	gen := NewGenerator(stubCopy{err: errors.New("Requested entity was not found.")}, &stubImages{}, fastOptions(prompts.VariantQuick), zaptest.NewLogger(t))

	_, err := gen.GenerateSite(context.Background(), lounge)
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestGenerateSite_GarbledCopyFallsBack(t *testing.T) {
	gen := NewGenerator(stubCopy{body: "not json"}, &stubImages{}, fastOptions(prompts.VariantQuick), zaptest.NewLogger(t))

	data, err := gen.GenerateSite(context.Background(), lounge)
	require.NoError(t, err)
	assert.Equal(t, "The Gentlemen's Lounge in Beverly Hills, CA", data.Hero.Heading)
	assert.Equal(t, "contact@thegentlemen'slounge.com", data.Contact.Email)
}

func TestFactory_MissingKey(t *testing.T) {
	f := NewFactory(Config{Provider: ProviderOpenAI}, zaptest.NewLogger(t))
	_, err := f.GenerateSite(context.Background(), lounge)
	require.ErrorIs(t, err, ErrMissingAPIKey)

	f = NewFactory(Config{}, zaptest.NewLogger(t))
	assert.Equal(t, ProviderGemini, f.Provider())
	_, err = f.New(context.Background())
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestParseCopy(t *testing.T) {
	fenced := "```json\n" + fixedCopy + "\n```"
	got := ParseCopy(fenced, nil)
	require.NotNil(t, got.Hero)
	assert.Len(t, got.Services, 4)

	wrapped := `{"content": {"hero": {"heading": "H", "tagline": "T"}}}`
	got = ParseCopy(wrapped, nil)
	require.NotNil(t, got.Hero)
	assert.Equal(t, "H", got.Hero.Heading)

	assert.Nil(t, ParseCopy("", nil).Hero)
	assert.Nil(t, ParseCopy("{oops", nil).Hero)
}
