package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	hash, err := ps.Hash("muad-dib")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "muad-dib" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "muad-dib"); err != nil {
		t.Errorf("Verify() rejected the correct password: %v", err)
	}
	if err := ps.Verify(hash, "harkonnen"); err == nil {
		t.Error("Verify() accepted the wrong password")
	}
}

func TestHash_SamePasswordDifferentHashes(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	h1, _ := ps.Hash("same-password")
	h2, _ := ps.Hash("same-password")
	if h1 == h2 {
		t.Error("Hash() produced identical hashes; the salt is not random")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := NewPasswordServiceForTest(4)

	if _, err := ps.Hash(strings.Repeat("a", 73)); err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}
