package category

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"Plastic", Plastic},
		{"metal", Metal},
		{"GLASS", Glass},
		{" Paper ", Paper},
		{"Organic", Organic},
		{"Other", Other},
		{"Cardboard", Other},
		{"", Other},
	}

	for _, tt := range tests {
		if got := Parse(tt.input); got != tt.expected {
			t.Errorf("Parse(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}

func TestLookup_ReportsUnknown(t *testing.T) {
	if _, ok := Lookup("Styrofoam"); ok {
		t.Error("Expected Styrofoam to be unknown")
	}
	if c, ok := Lookup("plastic"); !ok || c != Plastic {
		t.Errorf("Expected plastic to resolve, got %s %v", c, ok)
	}
}

func TestAll_FixedOrder(t *testing.T) {
	expected := []string{"Plastic", "Metal", "Organic", "Paper", "Glass", "Other"}
	all := All()

	if len(all) != Count {
		t.Fatalf("Expected %d categories, got %d", Count, len(all))
	}
	for i, c := range all {
		if c.String() != expected[i] {
			t.Errorf("Position %d: expected %s, got %s", i, expected[i], c)
		}
	}
}

func TestDescriptor_OutOfRange(t *testing.T) {
	if Category(42).String() != "Other" {
		t.Errorf("Expected out-of-range category to describe Other, got %s", Category(42))
	}
	if Category(-1).Disposal() != "Check local guidelines" {
		t.Error("Expected Other disposal text for negative category")
	}
}

func TestDescriptor_Data(t *testing.T) {
	if Organic.Disposal() != "Compost or dispose in green bin" {
		t.Errorf("Unexpected organic disposal: %s", Organic.Disposal())
	}
	if Plastic.Color() != "#2196F3" {
		t.Errorf("Unexpected plastic color: %s", Plastic.Color())
	}
	if Metal.Label() != "🔧 Metal" {
		t.Errorf("Unexpected metal label: %s", Metal.Label())
	}
	if Glass.Key() != "glass" {
		t.Errorf("Unexpected glass key: %s", Glass.Key())
	}
	for _, c := range All() {
		if c.Tip() == "" {
			t.Errorf("Category %s has no tip", c)
		}
	}
}

func TestDemoKeys_Resolve(t *testing.T) {
	for _, key := range DemoKeys {
		if _, ok := Lookup(key); !ok {
			t.Errorf("Demo key %q does not resolve to a category", key)
		}
	}
}

func TestCategory_JSON(t *testing.T) {
	var payload struct {
		Category Category `json:"category"`
	}

	if err := json.Unmarshal([]byte(`{"category":"Battery"}`), &payload); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if payload.Category != Other {
		t.Errorf("Expected unknown category to decode as Other, got %s", payload.Category)
	}

	payload.Category = Paper
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"category":"Paper"}` {
		t.Errorf("Unexpected JSON: %s", data)
	}
}
