package site

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"shopsite_server/internal/types"
	"shopsite_server/internal/utils"
)

// Mode selects how image references are written into the document.
type Mode int

const (
	// ModeInline writes image URLs or data URLs straight into src attributes.
	ModeInline Mode = iota
	// ModePlaceholder writes {{key}} tokens to be substituted after upload.
	ModePlaceholder
)

const (
	KeyHero  = "hero"
	KeyAbout = "about"
)

// GalleryKey returns the slot key of the i-th gallery image.
func GalleryKey(i int) string {
	return fmt.Sprintf("gallery%d", i)
}

// Placeholder wraps a slot key in the token substituted after upload.
func Placeholder(key string) string {
	return "{{" + key + "}}"
}

//go:embed templates/site.html.tmpl
var templateFS embed.FS

var siteTemplate = template.Must(
	template.New("site.html.tmpl").
		Funcs(template.FuncMap{
			"esc":      escapeText,
			"src":      safeSource,
			"iconPath": IconPath,
		}).
		ParseFS(templateFS, "templates/site.html.tmpl"),
)

// textEscaper covers text and double-quoted attribute contexts. Apostrophes are
// left alone so shop names render verbatim.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// safeSource admits http(s) URLs, site-relative paths, image data URLs and
// placeholder tokens; anything else renders as an empty src.
func safeSource(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"),
		strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "/") && !strings.HasPrefix(lower, "//"),
		strings.HasPrefix(lower, "{{") && strings.HasSuffix(lower, "}}"):
		return escapeText(strings.TrimSpace(s))
	default:
		return ""
	}
}

type galleryView struct {
	Index int
	Src   string
}

type pageView struct {
	Data       types.WebsiteData
	BrandFirst string
	BrandRest  string
	TelHref    string
	HeroSrc    string
	AboutSrc   string
	Services   []types.ServiceItem
	Gallery    []galleryView
}

// Render produces the full static HTML document for data.
func Render(data types.WebsiteData, mode Mode) (string, error) {
	view := pageView{
		Data:     data,
		TelHref:  "tel:" + stripSpaces(data.Phone),
		HeroSrc:  data.Hero.ImageURL,
		AboutSrc: data.About.ImageURL,
	}
	view.BrandFirst, view.BrandRest = splitBrand(data.ShopName)
	if mode == ModePlaceholder {
		view.HeroSrc = Placeholder(KeyHero)
		view.AboutSrc = Placeholder(KeyAbout)
	}
	view.Services = data.Services
	for i, img := range data.Gallery {
		if mode == ModePlaceholder {
			img = Placeholder(GalleryKey(i))
		}
		view.Gallery = append(view.Gallery, galleryView{Index: i, Src: img})
	}

	var buf bytes.Buffer
	if err := siteTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("rendering site %q: %w", data.ShopName, err)
	}
	return buf.String(), nil
}

// splitBrand splits the shop name at its first space: the first word renders
// plain, the rest in the accent colour.
func splitBrand(name string) (string, string) {
	first, rest, _ := strings.Cut(strings.TrimSpace(name), " ")
	return first, strings.TrimSpace(rest)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ImageKeys lists the slot keys a rendered document references, in order.
func ImageKeys(data types.WebsiteData) []string {
	keys := []string{KeyHero, KeyAbout}
	for i := range data.Gallery {
		keys = append(keys, GalleryKey(i))
	}
	return keys
}

// ImageSources maps every slot key to its current image reference. Empty slots
// are omitted.
func ImageSources(data types.WebsiteData) map[string]string {
	out := make(map[string]string)
	put := func(key, ref string) {
		if ref != "" {
			out[key] = ref
		}
	}
	put(KeyHero, data.Hero.ImageURL)
	put(KeyAbout, data.About.ImageURL)
	for i, img := range data.Gallery {
		put(GalleryKey(i), img)
	}
	return out
}

// ImagePayloads extracts an upload payload for every slot that still holds a
// data URL. Slots already pointing at a remote URL are skipped.
func ImagePayloads(data types.WebsiteData) []types.ImagePayload {
	sources := ImageSources(data)
	var payloads []types.ImagePayload
	for _, key := range ImageKeys(data) {
		ref, ok := sources[key]
		if !ok || !strings.HasPrefix(ref, "data:") {
			continue
		}
		payloads = append(payloads, types.ImagePayload{
			Key:      key,
			Filename: key + extensionOf(ref),
			Base64:   ref,
		})
	}
	return payloads
}

// RemoteImages returns the slots that already carry an http(s) URL.
func RemoteImages(data types.WebsiteData) map[string]string {
	out := make(map[string]string)
	for key, ref := range ImageSources(data) {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			out[key] = ref
		}
	}
	return out
}

func extensionOf(dataURL string) string {
	mime, _, _ := strings.Cut(strings.TrimPrefix(dataURL, "data:"), ";")
	return utils.ExtensionForMIME(mime)
}
