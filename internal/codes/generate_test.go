package codes

import (
	"regexp"
	"testing"
)

func TestGenerateRangeAndWidth(t *testing.T) {
	re := regexp.MustCompile(`^[1-9][0-9]{5}$`)
	for i := 0; i < 1000; i++ {
		c, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !re.MatchString(c) {
			t.Fatalf("code %q is not a 6-digit value without leading zero", c)
		}
	}
}

func TestGenerateNotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		c, err := Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		seen[c] = true
	}
	if len(seen) < 2 {
		t.Errorf("50 draws produced %d distinct codes", len(seen))
	}
}

func TestFormat(t *testing.T) {
	if got := Format("123456"); got != "123 456" {
		t.Errorf("Format(123456) = %q", got)
	}
	// не 6 символов — отдаём как есть, без паники
	if got := Format("12345"); got != "12345" {
		t.Errorf("Format(12345) = %q", got)
	}
}
