// Package category holds the fixed set of waste categories and their
// display data.
package category

import "strings"

// Category is one of the six waste classifications. The zero value is Plastic;
// use Parse to resolve labels coming from the backend.
type Category int

const (
	Plastic Category = iota
	Metal
	Organic
	Paper
	Glass
	Other
)

// Descriptor is the display data attached to a category.
type Descriptor struct {
	Name     string
	Color    string
	Emoji    string
	Disposal string
	Tip      string
}

var descriptors = [...]Descriptor{
	Plastic: {
		Name:     "Plastic",
		Color:    "#2196F3",
		Emoji:    "🗑️",
		Disposal: "Recycle in blue bin",
		Tip:      "Plastic waste should be rinsed and placed in recycling bins. Avoid contaminating with food residues.",
	},
	Metal: {
		Name:     "Metal",
		Color:    "#C0C0C0",
		Emoji:    "🔧",
		Disposal: "Recycle in blue bin",
		Tip:      "Metal cans and containers can be recycled. Remove labels if possible.",
	},
	Organic: {
		Name:     "Organic",
		Color:    "#4CAF50",
		Emoji:    "🍎",
		Disposal: "Compost or dispose in green bin",
		Tip:      "Organic waste like food scraps can be composted to create nutrient-rich soil.",
	},
	Paper: {
		Name:     "Paper",
		Color:    "#8B4513",
		Emoji:    "📄",
		Disposal: "Recycle in blue bin",
		Tip:      "Paper products are recyclable. Keep them dry and clean.",
	},
	Glass: {
		Name:     "Glass",
		Color:    "#87CEEB",
		Emoji:    "🥤",
		Disposal: "Recycle in blue bin",
		Tip:      "Glass bottles and jars should be rinsed and recycled. Remove caps.",
	},
	Other: {
		Name:     "Other",
		Color:    "#808080",
		Emoji:    "❓",
		Disposal: "Check local guidelines",
		Tip:      "For miscellaneous waste, consult local waste management guidelines.",
	},
}

// DemoKeys are the dataset folders the demo mode draws sample images from.
var DemoKeys = []string{"plastic", "metal", "glass", "paper"}

// All returns every category in display order.
func All() []Category {
	return []Category{Plastic, Metal, Organic, Paper, Glass, Other}
}

// Count is the number of categories.
const Count = int(Other) + 1

// Parse resolves a backend label or demo key. Unknown labels map to Other.
func Parse(label string) Category {
	c, ok := Lookup(label)
	if !ok {
		return Other
	}
	return c
}

// Lookup resolves a label case-insensitively and reports whether it matched.
func Lookup(label string) (Category, bool) {
	label = strings.TrimSpace(label)
	for _, c := range All() {
		if strings.EqualFold(descriptors[c].Name, label) {
			return c, true
		}
	}
	return Other, false
}

func (c Category) valid() bool {
	return c >= Plastic && c <= Other
}

// Descriptor returns the display data; out-of-range values describe Other.
func (c Category) Descriptor() Descriptor {
	if !c.valid() {
		return descriptors[Other]
	}
	return descriptors[c]
}

func (c Category) String() string { return c.Descriptor().Name }

// Key is the lower-case form used by the backend's demo dataset.
func (c Category) Key() string { return strings.ToLower(c.String()) }

// Label is the emoji-prefixed name shown in results and history.
func (c Category) Label() string {
	d := c.Descriptor()
	return d.Emoji + " " + d.Name
}

func (c Category) Color() string    { return c.Descriptor().Color }
func (c Category) Emoji() string    { return c.Descriptor().Emoji }
func (c Category) Disposal() string { return c.Descriptor().Disposal }
func (c Category) Tip() string      { return c.Descriptor().Tip }

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name, falling back to Other.
func (c *Category) UnmarshalText(text []byte) error {
	*c = Parse(string(text))
	return nil
}
