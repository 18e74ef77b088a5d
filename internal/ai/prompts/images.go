package prompts

import "fmt"

// Variant selects how many image slots are generated and how.
type Variant string

const (
	// VariantFull generates eight slots one after another.
	VariantFull Variant = "full"
	// VariantQuick generates hero, interior and tools slots in parallel.
	VariantQuick Variant = "quick"
)

// ParseVariant falls back to VariantFull for anything unrecognised.
func ParseVariant(s string) Variant {
	if Variant(s) == VariantQuick {
		return VariantQuick
	}
	return VariantFull
}

// ImagePrompt is one slot of the image sequence.
type ImagePrompt struct {
	Slot        string
	Text        string
	AspectRatio string
}

// ImagePrompts returns the ordered slot prompts for a variant. Slot 0 is always
// the hero, slot 1 the interior and slot 2 the tools close-up.
func ImagePrompts(v Variant, shopName, area string) []ImagePrompt {
	base := []ImagePrompt{
		{Slot: "hero", AspectRatio: "16:9", Text: fmt.Sprintf("Cinematic, high-end hero image of a master barber in a luxury shop in %s, moody atmosphere, professional photography, dark wood and gold accents, 16:9", area)},
		{Slot: "interior", AspectRatio: "4:3", Text: fmt.Sprintf("Elegantly styled interior of a boutique barbershop called %s, leather vintage chairs, marble floors, soft warm lighting, 4:3", shopName)},
		{Slot: "tools", AspectRatio: "1:1", Text: "Close-up of premium gold-plated barber scissors and a silver straight razor on a clean marble surface, high luxury grooming tools, 1:1"},
	}
	if v == VariantQuick {
		return base
	}
	return append(base,
		ImagePrompt{Slot: "fade", AspectRatio: "1:1", Text: fmt.Sprintf("A sharp, professional skin fade haircut on a client at %s, clean edges, detailed texture, professional salon shot, 1:1", shopName)},
		ImagePrompt{Slot: "lather", AspectRatio: "1:1", Text: "A master barber applying warm lather to a client with a silver shaving brush, luxury grooming ritual, 1:1"},
		ImagePrompt{Slot: "styling", AspectRatio: "1:1", Text: fmt.Sprintf("Modern masculine hair styling session at %s, dynamic movement, luxury products, artistic lighting, 1:1", shopName)},
		ImagePrompt{Slot: "lineup", AspectRatio: "1:1", Text: "Artistic close-up of a barber's hands using a straight razor for a precise beard lineup, high contrast, professional focus, 1:1"},
		ImagePrompt{Slot: "entrance", AspectRatio: "1:1", Text: fmt.Sprintf("The sophisticated entrance of %s in %s, architectural detail, premium brand logo on black window, 1:1", shopName, area)},
	)
}
