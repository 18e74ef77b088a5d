package prompts

import "fmt"

// FixedServices are the four services every site advertises, in icon order.
var FixedServices = [4]string{"Haircuts", "Beard Styling", "Traditional Shave", "Precision Fade"}

// GetSiteCopyPrompt builds the copywriting prompt. The heading constraint is stated
// literally because the assembler does not rewrite model headings.
func GetSiteCopyPrompt(shopName, area, phone string) string {
	return fmt.Sprintf(`Generate luxury barbershop website content for "%[1]s" in "%[2]s".
		Phone: %[3]s.
		Tone: Premium, high-end, masculine, professional.
		Hero heading MUST explicitly include both the shop name ("%[1]s") and the area ("%[2]s").
		Include:
		1. A catchy hero heading and tagline.
		2. "About Us" section with 2 detailed paragraphs.
		3. Details for 4 services: %[4]s, %[5]s, %[6]s, and %[7]s.
		4. A professional email.
		5. A full address in %[2]s.

		Respond with a single JSON object with the keys hero, about, services and contact only.`,
		shopName, area, phone,
		FixedServices[0], FixedServices[1], FixedServices[2], FixedServices[3],
	)
}

// SiteCopySystemPrompt is used by providers that take a separate system message.
const SiteCopySystemPrompt = "You are a copywriter for premium grooming businesses. You answer with JSON that matches the requested schema and nothing else."

// Field names shared by every provider's response schema.
const (
	FieldHero       = "hero"
	FieldAbout      = "about"
	FieldServices   = "services"
	FieldContact    = "contact"
	FieldHeading    = "heading"
	FieldTagline    = "tagline"
	FieldParagraphs = "paragraphs"
	FieldTitle      = "title"
	FieldSubtitle   = "subtitle"
	FieldDesc       = "description"
	FieldEmail      = "email"
	FieldAddress    = "address"
)
