package site

import (
	"fmt"
	"strings"
	"unicode"

	"shopsite_server/internal/ai/prompts"
	"shopsite_server/internal/types"
)

// MaxGallery is the most gallery images a site carries.
const MaxGallery = 8

// Fallback copy used whenever the model omits or blanks a field.
const (
	FallbackTagline      = "Elite Grooming Standards"
	FallbackAboutHeading = "The Artisan Standard"
	FallbackAboutText    = "Dedicated to traditional craft and modern style."
)

var fallbackServices = [4]types.CopyService{
	{Title: prompts.FixedServices[0], Subtitle: "Classic & Modern Cuts", Description: "Tailored cuts shaped to your features and finished with precision."},
	{Title: prompts.FixedServices[1], Subtitle: "Shape & Define", Description: "Expert beard sculpting, trimming and conditioning."},
	{Title: prompts.FixedServices[2], Subtitle: "Hot Towel Ritual", Description: "A straight-razor shave with hot towels and premium lather."},
	{Title: prompts.FixedServices[3], Subtitle: "Seamless Blends", Description: "Clean, sharp fades blended to perfection."},
}

// FallbackHeading is the hero heading used when the model gives none.
func FallbackHeading(shopName, area string) string {
	return fmt.Sprintf("%s in %s", shopName, area)
}

// FallbackEmail derives contact@{shop}.com with whitespace removed.
func FallbackEmail(shopName string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToLower(shopName))
	return "contact@" + stripped + ".com"
}

// Assemble merges generated copy and image slots into a complete WebsiteData.
// It never fails: missing copy falls back field by field, there are always
// exactly four services, and every image field is a reference or "".
func Assemble(inputs types.ShopInputs, siteCopy types.SiteCopy, images []string) types.WebsiteData {
	data := types.WebsiteData{
		ShopName: inputs.ShopName,
		Area:     inputs.Area,
		Phone:    inputs.Phone,
	}

	data.Hero.Heading = FallbackHeading(inputs.ShopName, inputs.Area)
	data.Hero.Tagline = FallbackTagline
	if h := siteCopy.Hero; h != nil {
		data.Hero.Heading = orDefault(h.Heading, data.Hero.Heading)
		data.Hero.Tagline = orDefault(h.Tagline, data.Hero.Tagline)
	}
	data.Hero.ImageURL = slot(images, 0)

	data.About.Heading = FallbackAboutHeading
	data.About.Description = []string{FallbackAboutText}
	if a := siteCopy.About; a != nil {
		data.About.Heading = orDefault(a.Heading, data.About.Heading)
		if paras := nonBlank(a.Paragraphs); len(paras) > 0 {
			data.About.Description = paras
		}
	}
	data.About.ImageURL = slot(images, 1, 0)

	data.Services = make([]types.ServiceItem, len(types.ServiceIcons))
	for i := range data.Services {
		svc := fallbackServices[i]
		if i < len(siteCopy.Services) {
			got := siteCopy.Services[i]
			svc.Title = orDefault(got.Title, svc.Title)
			svc.Subtitle = orDefault(got.Subtitle, svc.Subtitle)
			svc.Description = orDefault(got.Description, svc.Description)
		}
		data.Services[i] = types.ServiceItem{
			Title:       svc.Title,
			Subtitle:    svc.Subtitle,
			Description: svc.Description,
			Icon:        types.IconForIndex(i),
			ImageURL:    slot(images, i+2, 2, 1, 0),
		}
	}

	n := len(images)
	if n > MaxGallery {
		n = MaxGallery
	}
	data.Gallery = make([]string, n)
	copy(data.Gallery, images[:n])

	data.Contact.Address = inputs.Area
	data.Contact.Email = FallbackEmail(inputs.ShopName)
	if c := siteCopy.Contact; c != nil {
		data.Contact.Address = orDefault(c.Address, data.Contact.Address)
		data.Contact.Email = orDefault(c.Email, data.Contact.Email)
	}
	return data
}

// slot returns the first non-empty image among the given indexes, or "".
func slot(images []string, indexes ...int) string {
	for _, i := range indexes {
		if i >= 0 && i < len(images) && images[i] != "" {
			return images[i]
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
