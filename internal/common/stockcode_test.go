package common

import (
	"testing"
)

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"005930", true},
		{"0", true},
		{"", false},
		{"00593a", false},
		{"１２３", false}, // full-width digits are not ASCII digits
		{"12 34", false},
	}

	for _, tt := range tests {
		if got := IsAllDigits(tt.input); got != tt.want {
			t.Errorf("IsAllDigits(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestIsStockCode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"005930", true},
		{"035720", true},
		{"5930", false},
		{"0059301", false},
		{"00593x", false},
	}

	for _, tt := range tests {
		if got := IsStockCode(tt.input); got != tt.want {
			t.Errorf("IsStockCode(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Samsung Electronics ", "samsungelectronics"},
		{"삼성 전자", "삼성전자"},
		{"NAVER", "naver"},
		{"  LG  에너지솔루션  ", "lg에너지솔루션"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNewDocumentID(t *testing.T) {
	a := NewDocumentID()
	b := NewDocumentID()

	if a == b {
		t.Error("document ids must be unique")
	}
	if len(a) <= len("doc_") || a[:4] != "doc_" {
		t.Errorf("unexpected id format: %q", a)
	}
}

func TestURLHashStable(t *testing.T) {
	a := URLHash("https://n.example/1")
	b := URLHash("https://n.example/1")
	c := URLHash("https://n.example/2")

	if a != b {
		t.Error("same URL must hash to the same id")
	}
	if a == c {
		t.Error("different URLs must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex characters", len(a))
	}
}
