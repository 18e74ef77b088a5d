package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsite_server/internal/types"
)

var lounge = types.ShopInputs{ShopName: "The Gentlemen's Lounge", Area: "Beverly Hills, CA", Phone: "+1 234 567 8900"}

func TestAssemble_EmptyCopyUsesFallbacks(t *testing.T) {
	data := Assemble(lounge, types.SiteCopy{}, nil)

	assert.Equal(t, "The Gentlemen's Lounge in Beverly Hills, CA", data.Hero.Heading)
	assert.Equal(t, FallbackTagline, data.Hero.Tagline)
	assert.Equal(t, FallbackAboutHeading, data.About.Heading)
	assert.Equal(t, []string{FallbackAboutText}, data.About.Description)
	assert.Equal(t, "Beverly Hills, CA", data.Contact.Address)
	assert.Equal(t, "contact@thegentlemen'slounge.com", data.Contact.Email)

	require.Len(t, data.Services, 4)
	for i, svc := range data.Services {
		assert.Equal(t, types.ServiceIcons[i], svc.Icon)
		assert.NotEmpty(t, svc.Title)
		assert.Equal(t, "", svc.ImageURL)
	}
	assert.NotNil(t, data.Gallery)
	assert.Empty(t, data.Gallery)
	assert.Equal(t, "", data.Hero.ImageURL)
	assert.Equal(t, "", data.About.ImageURL)
}

func TestAssemble_BlankFieldsCountAsMissing(t *testing.T) {
	var c types.SiteCopy
	c.Hero = &struct {
		Heading string `json:"heading"`
		Tagline string `json:"tagline"`
	}{Heading: "  ", Tagline: "Sharp Lines"}
	c.About = &struct {
		Heading    string   `json:"heading"`
		Paragraphs []string `json:"paragraphs"`
	}{Heading: "Our Craft", Paragraphs: []string{" ", ""}}

	data := Assemble(lounge, c, nil)

	assert.Equal(t, FallbackHeading(lounge.ShopName, lounge.Area), data.Hero.Heading)
	assert.Equal(t, "Sharp Lines", data.Hero.Tagline)
	assert.Equal(t, "Our Craft", data.About.Heading)
	assert.Equal(t, []string{FallbackAboutText}, data.About.Description)
}

func TestAssemble_ServicesAlwaysFour(t *testing.T) {
	short := types.SiteCopy{Services: []types.CopyService{{Title: "Kids Cut", Subtitle: "Under 12", Description: "Gentle."}}}
	data := Assemble(lounge, short, nil)
	require.Len(t, data.Services, 4)
	assert.Equal(t, "Kids Cut", data.Services[0].Title)
	assert.Equal(t, "Beard Styling", data.Services[1].Title)

	long := types.SiteCopy{Services: make([]types.CopyService, 6)}
	for i := range long.Services {
		long.Services[i].Title = "Extra"
	}
	data = Assemble(lounge, long, nil)
	require.Len(t, data.Services, 4)
	assert.Equal(t, types.IconFace, data.Services[3].Icon)
}

func TestAssemble_ImageSlots(t *testing.T) {
	images := []string{"h", "a", "s0", "s1", "s2", "s3", "g6", "g7", "g8"}
	data := Assemble(lounge, types.SiteCopy{}, images)

	assert.Equal(t, "h", data.Hero.ImageURL)
	assert.Equal(t, "a", data.About.ImageURL)
	assert.Equal(t, "s0", data.Services[0].ImageURL)
	assert.Equal(t, "s3", data.Services[3].ImageURL)
	assert.Len(t, data.Gallery, MaxGallery)
	assert.Equal(t, "h", data.Gallery[0])

	data = Assemble(lounge, types.SiteCopy{}, []string{"only"})
	assert.Equal(t, "only", data.About.ImageURL)
	for _, svc := range data.Services {
		assert.Equal(t, "only", svc.ImageURL)
	}
	assert.Equal(t, []string{"only"}, data.Gallery)
}

func TestAssemble_DoesNotAliasImages(t *testing.T) {
	images := []string{"h", "a", "t"}
	data := Assemble(lounge, types.SiteCopy{}, images)
	images[0] = "changed"
	assert.Equal(t, "h", data.Gallery[0])
}
