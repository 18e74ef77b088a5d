package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ShopInputs is what the user types into the form.
type ShopInputs struct {
	ShopName string `json:"shopName" binding:"required"`
	Area     string `json:"area" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// Validate reports the first blank field. Binding tags only catch missing keys,
// so whitespace-only values are rejected here.
func (in ShopInputs) Validate() error {
	switch {
	case strings.TrimSpace(in.ShopName) == "":
		return fmt.Errorf("missing required field: shopName")
	case strings.TrimSpace(in.Area) == "":
		return fmt.Errorf("missing required field: area")
	case strings.TrimSpace(in.Phone) == "":
		return fmt.Errorf("missing required field: phone")
	}
	return nil
}

// ServiceIcon is the closed set of icons a service card can show.
type ServiceIcon string

const (
	IconScissors ServiceIcon = "scissors"
	IconRazor    ServiceIcon = "razor"
	IconMustache ServiceIcon = "mustache"
	IconFace     ServiceIcon = "face"
)

// ServiceIcons is the fixed icon sequence services are mapped onto by position.
var ServiceIcons = [4]ServiceIcon{IconScissors, IconRazor, IconMustache, IconFace}

// IconForIndex returns the icon for the i-th service (index mod 4).
func IconForIndex(i int) ServiceIcon {
	if i < 0 {
		i = -i
	}
	return ServiceIcons[i%len(ServiceIcons)]
}

// ParseServiceIcon normalizes s and rejects anything outside the icon set.
func ParseServiceIcon(s string) (ServiceIcon, error) {
	icon := ServiceIcon(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ServiceIcons {
		if icon == known {
			return icon, nil
		}
	}
	return "", fmt.Errorf("unknown service icon %q", s)
}

func (i *ServiceIcon) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	icon, err := ParseServiceIcon(s)
	if err != nil {
		return err
	}
	*i = icon
	return nil
}

type Hero struct {
	Heading  string `json:"heading"`
	Tagline  string `json:"tagline"`
	ImageURL string `json:"imageUrl"`
}

type About struct {
	Heading     string   `json:"heading"`
	Description []string `json:"description"`
	ImageURL    string   `json:"imageUrl"`
}

type ServiceItem struct {
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle"`
	Description string      `json:"description"`
	Icon        ServiceIcon `json:"icon"`
	ImageURL    string      `json:"imageUrl"`
}

type Contact struct {
	Address string `json:"address"`
	Email   string `json:"email"`
}

// WebsiteData is the assembled, render-ready site. Every image field holds a URL,
// a base64 data URL or "" (never absent).
type WebsiteData struct {
	ShopName string        `json:"shopName"`
	Area     string        `json:"area"`
	Phone    string        `json:"phone"`
	Hero     Hero          `json:"hero"`
	About    About         `json:"about"`
	Services []ServiceItem `json:"services"`
	Gallery  []string      `json:"gallery"`
	Contact  Contact       `json:"contact"`
}

// SiteCopy is the text the content model returns. Every field may be missing.
type SiteCopy struct {
	Hero *struct {
		Heading string `json:"heading"`
		Tagline string `json:"tagline"`
	} `json:"hero,omitempty"`
	About *struct {
		Heading    string   `json:"heading"`
		Paragraphs []string `json:"paragraphs"`
	} `json:"about,omitempty"`
	Services []CopyService `json:"services,omitempty"`
	Contact  *struct {
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"contact,omitempty"`
}

type CopyService struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
}

// ImagePayload is one image to upload, keyed by its slot ("hero", "about", "gallery0", ...).
type ImagePayload struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Base64   string `json:"base64"`
}

type UploadResult struct {
	PublicURL string `json:"publicUrl"`
	FilePath  string `json:"filePath"`
}

// DeploymentRequest is the body of the deploy-site endpoint.
type DeploymentRequest struct {
	SiteID    string            `json:"siteId"`
	HTML      string            `json:"html"`
	CSS       string            `json:"css,omitempty"`
	Images    []ImagePayload    `json:"images,omitempty"`
	ImageURLs map[string]string `json:"imageUrls,omitempty"`
}

// VercelFile is one inlined file in a deployment payload.
type VercelFile struct {
	File     string `json:"file"`
	Data     string `json:"data"`
	Encoding string `json:"encoding,omitempty"`
}

type DeploymentResult struct {
	DeploymentURL string `json:"deploymentUrl"`
	InspectorURL  string `json:"inspectorUrl,omitempty"`
	DeploymentID  string `json:"deploymentId,omitempty"`
}
