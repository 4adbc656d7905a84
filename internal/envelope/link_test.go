package envelope

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hushbox/hushbox/internal/crypto"
)

func testToken(t *testing.T) string {
	t.Helper()
	id, err := crypto.GenerateToken()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func testKeyHex(t *testing.T) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	return crypto.KeyToHex(key)
}

func TestBuildShareLink(t *testing.T) {
	id := testToken(t)
	key := testKeyHex(t)

	tests := []struct {
		name string
		base string
		want string
	}{
		{"plain host", "https://drop.example.com", "https://drop.example.com/view/" + id + "#" + key},
		{"trailing slash", "https://drop.example.com/", "https://drop.example.com/view/" + id + "#" + key},
		{"path prefix", "https://example.com/hushbox", "https://example.com/hushbox/view/" + id + "#" + key},
		{"with port", "http://localhost:8400", "http://localhost:8400/view/" + id + "#" + key},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildShareLink(tt.base, id, key)
			if err != nil {
				t.Fatalf("BuildShareLink() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildShareLink() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildShareLink_Invalid(t *testing.T) {
	id := testToken(t)
	key := testKeyHex(t)

	tests := []struct {
		name string
		base string
		id   string
		key  string
	}{
		{"relative base", "/view", id, key},
		{"empty base", "", id, key},
		{"malformed id", "https://example.com", "not-an-id", key},
		{"short key", "https://example.com", id, key[:32]},
		{"non-hex key", "https://example.com", id, strings.Repeat("zz", 32)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildShareLink(tt.base, tt.id, tt.key); !errors.Is(err, ErrInvalidShareLink) {
				t.Errorf("expected ErrInvalidShareLink, got %v", err)
			}
		})
	}
}

func TestParseShareLink(t *testing.T) {
	id := testToken(t)
	key := testKeyHex(t)

	link, err := BuildShareLink("https://drop.example.com", id, key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		raw  string
	}{
		{"full link", link},
		{"bare id with fragment", id + "#" + key},
		{"uppercase", strings.ToUpper(id) + "#" + strings.ToUpper(key)},
		{"trailing slash on id", "https://drop.example.com/view/" + id + "/#" + key},
		{"path prefix", "https://example.com/app/view/" + id + "#" + key},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotKey, err := ParseShareLink(tt.raw)
			if err != nil {
				t.Fatalf("ParseShareLink() error = %v", err)
			}
			if gotID != id {
				t.Errorf("id = %s, want %s", gotID, id)
			}
			if gotKey != key {
				t.Errorf("key = %s, want %s", gotKey, key)
			}
		})
	}
}

func TestParseShareLink_Invalid(t *testing.T) {
	id := testToken(t)
	key := testKeyHex(t)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no fragment", "https://example.com/view/" + id},
		{"bare id no fragment", id},
		{"wrong path", "https://example.com/s/" + id + "#" + key},
		{"malformed id", "https://example.com/view/short#" + key},
		{"short key", id + "#" + key[:16]},
		{"non-hex key", id + "#" + strings.Repeat("xy", 32)},
		{"empty fragment", id + "#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseShareLink(tt.raw); !errors.Is(err, ErrInvalidShareLink) {
				t.Errorf("expected ErrInvalidShareLink, got %v", err)
			}
		})
	}
}

// Example_shareLink demonstrates building and parsing a share link. The key
// lives in the fragment, which never reaches the server.
func Example_shareLink() {
	id := strings.Repeat("ab", 32)
	key := strings.Repeat("cd", 32)

	link, _ := BuildShareLink("https://drop.example.com", id, key)
	parsedID, parsedKey, _ := ParseShareLink(link)

	fmt.Println(parsedID == id && parsedKey == key)
	// Output: true
}
