package validate

import "testing"

func TestEmail(t *testing.T) {
	cases := map[string]bool{
		"jan@example.com":    true,
		" jan@example.com ":  true,
		"jan.novak@firma.cz": true,
		"jan@":               false,
		"@example.com":       false,
		"jan example.com":    false,
		"":                   false,
	}
	for in, want := range cases {
		if _, ok := Email(in); ok != want {
			t.Errorf("Email(%q) = %v, want %v", in, ok, want)
		}
	}
}

func TestPhoneOptional(t *testing.T) {
	if _, ok := Phone(""); !ok {
		t.Error("empty phone must be accepted")
	}
	if _, ok := Phone("+420 777 123 456"); !ok {
		t.Error("formatted Czech number must pass")
	}
	if _, ok := Phone("abc"); ok {
		t.Error("letters must fail")
	}
}

func TestShapeAndStatus(t *testing.T) {
	for _, s := range []string{"circle", "rectangle", "rectangle_sharp"} {
		if _, ok := Shape(s); !ok {
			t.Errorf("shape %q must pass", s)
		}
	}
	if _, ok := Shape("oval"); ok {
		t.Error("unknown shape must fail")
	}
	if _, ok := QuoteStatus("accepted"); !ok {
		t.Error("accepted must pass")
	}
	if _, ok := QuoteStatus("archived"); ok {
		t.Error("unknown status must fail")
	}
}

func TestNumericClamps(t *testing.T) {
	if got := Quantity("0"); got != 1 {
		t.Errorf("zero quantity clamps to 1, got %v", got)
	}
	if got := Quantity("5000"); got != 999 {
		t.Errorf("quantity caps at 999, got %v", got)
	}
	if got := Percent("150"); got != 100 {
		t.Errorf("percent caps at 100, got %v", got)
	}
	if got := Percent("-5"); got != 0 {
		t.Errorf("negative percent clamps to 0, got %v", got)
	}
	if got := Amount("-100"); got != 0 {
		t.Errorf("negative amount clamps to 0, got %v", got)
	}
	if got := Dimension("1,5"); got != 1.5 {
		t.Errorf("decimal comma dimension, got %v", got)
	}
	if got := Dimension("60"); got != 0 {
		t.Errorf("implausible dimension drops to 0, got %v", got)
	}
	if got := DimensionValue(3.5); got != 3.5 {
		t.Errorf("plausible dimension passes through, got %v", got)
	}
	if got := DimensionValue(60); got != 0 {
		t.Errorf("implausible numeric dimension drops to 0, got %v", got)
	}
	if got := DimensionValue(-1); got != 0 {
		t.Errorf("negative dimension drops to 0, got %v", got)
	}
}

func TestPassword(t *testing.T) {
	if !Password("Passw0rd!") {
		t.Error("mixed-case with digit must pass")
	}
	for _, bad := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		if Password(bad) {
			t.Errorf("password %q must fail", bad)
		}
	}
}
