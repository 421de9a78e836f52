package utils

import (
	"strings"
	"testing"
	"time"
)

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"+55 (11) 99999-0000", true},
		{"11999990000", true},
		{"+0123", false},
		{"abc", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.phone); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
	if got := NormalizePhone("+55 (11) 99999-0000"); got != "+5511999990000" {
		t.Errorf("NormalizePhone = %q", got)
	}
}

func TestParseDateRange(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	start, end, err := ParseDateRange("", "", now)
	if err != nil {
		t.Fatalf("default range: %v", err)
	}
	if !start.Equal(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)) || end.Day() != 31 || end.Month() != time.October {
		t.Fatalf("unexpected default range %s - %s", start, end)
	}

	start, end, err = ParseDateRange("2026-09-01", "2026-09-15", now)
	if err != nil {
		t.Fatalf("explicit range: %v", err)
	}
	if start.Day() != 1 || end.Day() != 15 || end.Hour() != 23 {
		t.Fatalf("unexpected explicit range %s - %s", start, end)
	}

	if _, _, err := ParseDateRange("2026-09-15", "2026-09-01", now); err == nil {
		t.Fatal("expected reversed range to fail")
	}
	if _, _, err := ParseDateRange("15/09/2026", "", now); err == nil {
		t.Fatal("expected malformed date to fail")
	}
}

func TestNextReceiptNumberRequiresNode(t *testing.T) {
	receiptNodeMu.Lock()
	saved := receiptNode
	receiptNode = nil
	receiptNodeMu.Unlock()
	t.Cleanup(func() {
		receiptNodeMu.Lock()
		receiptNode = saved
		receiptNodeMu.Unlock()
	})

	if _, err := NextReceiptNumber(time.Now()); err == nil {
		t.Fatal("expected an error without a node")
	}
}

func TestNextReceiptNumber(t *testing.T) {
	if err := InitReceiptNode(7); err != nil {
		t.Fatalf("init node: %v", err)
	}
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n, err := NextReceiptNumber(now)
		if err != nil {
			t.Fatalf("receipt number: %v", err)
		}
		if !strings.HasPrefix(n, "REC-20261016-") {
			t.Fatalf("unexpected receipt number %q", n)
		}
		if seen[n] {
			t.Fatalf("duplicate receipt number %q", n)
		}
		seen[n] = true
	}

	if err := InitReceiptNode(5000); err == nil {
		t.Fatal("expected node id out of range to fail")
	}
}
