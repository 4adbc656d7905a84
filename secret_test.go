package hushbox

import (
	"errors"
	"strings"
	"testing"
)

const (
	linkTestID  = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
	linkTestKey = "2b7e151628aed2a6abf7158809cf4f3c2b7e151628aed2a6abf7158809cf4f3c"
)

func TestLimitConstants(t *testing.T) {
	if MaxFiles != 5 {
		t.Errorf("MaxFiles = %d, want 5", MaxFiles)
	}
	if MaxTotalFileBytes != 10<<20 {
		t.Errorf("MaxTotalFileBytes = %d, want 10 MiB", MaxTotalFileBytes)
	}
}

func TestParseShareLink(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{"full URL", "https://hush.example.com/view/" + linkTestID + "#" + linkTestKey},
		{"URL with port", "http://localhost:8080/view/" + linkTestID + "#" + linkTestKey},
		{"URL with path prefix", "https://example.com/hushbox/view/" + linkTestID + "#" + linkTestKey},
		{"bare id and key", linkTestID + "#" + linkTestKey},
		{"uppercase is normalized", strings.ToUpper(linkTestID) + "#" + strings.ToUpper(linkTestKey)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseShareLink(tt.link)
			if err != nil {
				t.Fatalf("ParseShareLink() error = %v", err)
			}
			if parsed.ID != linkTestID {
				t.Errorf("ID = %s, want %s", parsed.ID, linkTestID)
			}
			if parsed.Key != linkTestKey {
				t.Errorf("Key = %s, want %s", parsed.Key, linkTestKey)
			}
		})
	}
}

func TestParseShareLink_Invalid(t *testing.T) {
	tests := []struct {
		name string
		link string
	}{
		{"empty", ""},
		{"no fragment", "https://hush.example.com/view/" + linkTestID},
		{"no view segment", "https://hush.example.com/" + linkTestID + "#" + linkTestKey},
		{"short id", "https://hush.example.com/view/abc123#" + linkTestKey},
		{"short key", linkTestID + "#abc123"},
		{"id not hex", strings.Repeat("g", 64) + "#" + linkTestKey},
		{"key not hex", linkTestID + "#" + strings.Repeat("z", 64)},
		{"plain text", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShareLink(tt.link)
			if !errors.Is(err, ErrInvalidShareLink) {
				t.Errorf("ParseShareLink(%q) error = %v, want ErrInvalidShareLink", tt.link, err)
			}
		})
	}
}

func TestSecret_TotalFileBytes(t *testing.T) {
	secret := &Secret{
		Files: []File{
			{Name: "a", Data: make([]byte, 100)},
			{Name: "b", Data: make([]byte, 250)},
			{Name: "c", Data: nil},
		},
	}
	if got := secret.totalFileBytes(); got != 350 {
		t.Errorf("totalFileBytes() = %d, want 350", got)
	}

	empty := &Secret{Text: "no files"}
	if got := empty.totalFileBytes(); got != 0 {
		t.Errorf("totalFileBytes() = %d, want 0", got)
	}
}
