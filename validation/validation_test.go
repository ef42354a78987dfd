package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	Required("category", "tools", v)
	if v["name"] != "required" {
		t.Fatalf("expected name required got %v", v)
	}
	if _, ok := v["category"]; ok {
		t.Fatalf("category should be valid")
	}
}

func TestNumbers(t *testing.T) {
	v := Violations{}
	if f, ok := Float("sell_price", "12,5", v); !ok || f != 12.5 {
		t.Fatalf("expected 12.5 got %v %v", f, ok)
	}
	if _, ok := Float("buy_price", "", v); ok {
		t.Fatalf("blank float must be absent")
	}
	if f, ok := Float("buy_price", "0", v); !ok || f != 0 {
		t.Fatalf("explicit zero must be present")
	}
	if n, ok := Int("quantity", "08", v); !ok || n != 8 {
		t.Fatalf("expected 8 got %v %v", n, ok)
	}
	if !v.Empty() {
		t.Fatalf("unexpected violations %v", v)
	}
	Float("sell_price", "abc", v)
	Int("quantity", "1.5", v)
	if v["sell_price"] != "invalid_number" || v["quantity"] != "invalid_number" {
		t.Fatalf("expected invalid_number violations got %v", v)
	}
}

func TestBounds(t *testing.T) {
	v := Violations{}
	NonNegativeFloat("sell_price", -0.01, v)
	NonNegativeInt("quantity", -1, v)
	MaxLength("name", "abcdef", 5, v)
	NonNegativeFloat("buy_price", 0, v)
	if len(v) != 3 {
		t.Fatalf("expected 3 violations got %v", v)
	}
}
