package normalization

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@B.com "); got != "a@b.com" {
		t.Fatalf("NormalizeEmail: want=%q got=%q", "a@b.com", got)
	}
	if got := NormalizeEmail("alice@example.com"); got != "alice@example.com" {
		t.Fatalf("NormalizeEmail: want=%q got=%q", "alice@example.com", got)
	}
	if got := NormalizeEmail("   "); got != "" {
		t.Fatalf("NormalizeEmail: whitespace input should yield empty key, got=%q", got)
	}
	if got := NormalizeEmail(""); got != "" {
		t.Fatalf("NormalizeEmail: empty input should yield empty key, got=%q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("(555) 010-1"); got != "5550101" {
		t.Fatalf("NormalizePhone: want=%q got=%q", "5550101", got)
	}
	if got := NormalizePhone("+1 555-010-1234"); got != "15550101234" {
		t.Fatalf("NormalizePhone: want=%q got=%q", "15550101234", got)
	}
	if got := NormalizePhone("ext."); got != "" {
		t.Fatalf("NormalizePhone: digit-free input should yield empty key, got=%q", got)
	}
	if got := NormalizePhone(""); got != "" {
		t.Fatalf("NormalizePhone: empty input should yield empty key, got=%q", got)
	}
}
