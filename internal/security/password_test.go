package security_test

import (
	"testing"

	"github.com/vaultdeck/vaultdeck/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !security.CheckPassword(hash, "hunter2") {
		t.Fatal("correct password did not verify")
	}

	if security.CheckPassword(hash, "hunter3") {
		t.Fatal("wrong password verified")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	h2, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if h1 == h2 {
		t.Fatal("two hashes of the same input must differ")
	}

	if !security.CheckPassword(h1, "same-input") || !security.CheckPassword(h2, "same-input") {
		t.Fatal("both salted hashes must verify against the original input")
	}
}

func TestCheckPasswordMalformedDigest(t *testing.T) {
	// a corrupt stored digest must behave like a wrong password, not an error
	if security.CheckPassword("not-a-bcrypt-digest", "hunter2") {
		t.Fatal("malformed digest verified")
	}

	if security.CheckPassword("", "hunter2") {
		t.Fatal("empty digest verified")
	}
}
