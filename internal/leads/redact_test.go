package leads

import (
	"strings"
	"testing"
)

func TestContactHashIgnoresFormatting(t *testing.T) {
	a := contactHash("(416) 200-0905")
	for _, phone := range []string{"4162000905", "+1 416-200-0905", "416.200.0905"} {
		if got := contactHash(phone); got != a {
			t.Fatalf("contactHash(%q) = %s, want %s", phone, got, a)
		}
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %q", a)
	}
	if contactHash("905-555-0100") == a {
		t.Fatal("different numbers should not collide")
	}
}

func TestScrubPII(t *testing.T) {
	got := scrubPII("Call me at 416-555-0199 or mail jo@example.ca about the furnace")
	want := "Call me at [PHONE] or mail [EMAIL] about the furnace"
	if got != want {
		t.Fatalf("scrubPII() = %q, want %q", got, want)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("a", previewLen+20)
	got := preview(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != previewLen+3 {
		t.Fatalf("unexpected preview %q", got)
	}
	if preview("  short  ") != "short" {
		t.Fatalf("expected trimmed text")
	}
}
