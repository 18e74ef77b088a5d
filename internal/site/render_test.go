package site

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsite_server/internal/types"
)

func sampleSite() types.WebsiteData {
	images := []string{
		"data:image/png;base64,AAAA",
		"https://cdn.example.com/about.jpg",
		"data:image/jpeg;base64,BBBB",
	}
	return Assemble(lounge, types.SiteCopy{}, images)
}

func TestRender_InlineMode(t *testing.T) {
	html, err := Render(sampleSite(), ModeInline)
	require.NoError(t, err)

	assert.Contains(t, html, "The Gentlemen's Lounge")
	assert.Contains(t, html, "Beverly Hills, CA")
	assert.Contains(t, html, `href="tel:+12345678900"`)
	assert.Contains(t, html, "+1 234 567 8900")
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, html, `src="https://cdn.example.com/about.jpg"`)
	assert.Equal(t, 4, strings.Count(html, "data-icon="))
	assert.Contains(t, html, `data-icon="face"`)
	assert.Contains(t, html, `The <span class="text-[#f4a100]">Gentlemen's Lounge</span>`)
	assert.NotContains(t, html, "{{")
}

func TestRender_PlaceholderMode(t *testing.T) {
	data := sampleSite()
	html, err := Render(data, ModePlaceholder)
	require.NoError(t, err)

	for _, key := range ImageKeys(data) {
		assert.Contains(t, html, Placeholder(key))
	}
	assert.NotContains(t, html, "data:image/png;base64,AAAA")
	assert.NotContains(t, html, "{{gallery3}}")
}

func TestRender_OneParagraphPerEntry(t *testing.T) {
	data := sampleSite()
	data.About.Description = []string{"First.", "Second.", "Third."}
	html, err := Render(data, ModeInline)
	require.NoError(t, err)
	assert.Contains(t, html, "<p>First.</p>")
	assert.Contains(t, html, "<p>Third.</p>")
}

func TestRender_EscapesMarkup(t *testing.T) {
	data := sampleSite()
	data.Hero.Heading = `<script>alert("x")</script>`
	data.Hero.ImageURL = "javascript:alert(1)"
	html, err := Render(data, ModeInline)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "javascript:")
}

func TestRender_IsDeterministic(t *testing.T) {
	a, err := Render(sampleSite(), ModePlaceholder)
	require.NoError(t, err)
	b, err := Render(sampleSite(), ModePlaceholder)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestImagePayloads(t *testing.T) {
	data := sampleSite()
	payloads := ImagePayloads(data)

	keys := make([]string, 0, len(payloads))
	for _, p := range payloads {
		keys = append(keys, p.Key)
		assert.True(t, strings.HasPrefix(p.Base64, "data:"))
	}
	assert.Equal(t, []string{"hero", "gallery0", "gallery2"}, keys)
	assert.Equal(t, "hero.png", payloads[0].Filename)
	assert.Equal(t, "gallery2.jpg", payloads[2].Filename)

	remote := RemoteImages(data)
	assert.Equal(t, map[string]string{
		"about":    "https://cdn.example.com/about.jpg",
		"gallery1": "https://cdn.example.com/about.jpg",
	}, remote)
}

func TestIconPath_CoversEveryIcon(t *testing.T) {
	seen := map[string]bool{}
	for _, icon := range types.ServiceIcons {
		p, err := IconPath(icon)
		require.NoError(t, err)
		assert.NotEmpty(t, p)
		seen[p] = true
	}
	assert.Len(t, seen, len(types.ServiceIcons))
}

func TestIconPath_RejectsUnknown(t *testing.T) {
	_, err := IconPath(types.ServiceIcon("comb"))
	require.ErrorIs(t, err, ErrUnknownIcon)

	data := sampleSite()
	data.Services[2].Icon = types.ServiceIcon("comb")
	_, err = Render(data, ModeInline)
	require.Error(t, err)
	assert.ErrorContains(t, err, `"comb"`)
}
