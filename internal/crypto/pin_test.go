package crypto

import (
	"strings"
	"testing"
)

func TestHashPIN_KnownVectors(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want string
	}{
		{"numeric", "1234", "03ac674216f3e15c761ee1a5e255f067953623c8b388b4459e13f978d7c846f4"},
		{"zeros", "0000", "9af15b336e6a9619928537df30b2e6a2376569fcf9d7e773eccede65606529a0"},
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HashPIN(tt.pin); got != tt.want {
				t.Errorf("HashPIN(%q) = %s, want %s", tt.pin, got, tt.want)
			}
		})
	}
}

func TestHashPIN_Deterministic(t *testing.T) {
	if HashPIN("4821") != HashPIN("4821") {
		t.Error("same PIN produced different digests")
	}
}

func TestHashPIN_DistinctPINs(t *testing.T) {
	if HashPIN("1234") == HashPIN("1235") {
		t.Error("different PINs produced the same digest")
	}
}

func TestHashPIN_UTF8(t *testing.T) {
	// PINs are hashed over their UTF-8 bytes, so non-ASCII input is fine.
	digest := HashPIN("päss-秘密")
	if len(digest) != PinHashLen {
		t.Errorf("digest length = %d, want %d", len(digest), PinHashLen)
	}
	if !IsPinHash(digest) {
		t.Errorf("digest fails validation: %s", digest)
	}
}

func TestIsPinHash(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", HashPIN("1234"), true},
		{"uppercase", strings.ToUpper(HashPIN("1234")), true},
		{"too short", strings.Repeat("a", 63), false},
		{"too long", strings.Repeat("a", 65), false},
		{"not hex", strings.Repeat("g", 64), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPinHash(tt.input); got != tt.want {
				t.Errorf("IsPinHash(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func BenchmarkHashPIN(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = HashPIN("482913")
	}
}
