package services

import (
	"strings"
	"testing"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash is not a PHC argon2id string: %q", hash)
	}
	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashPasswordUniqueSalt(t *testing.T) {
	h1, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("secret1")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt is not random")
	}
}

func TestHashPasswordMinLength(t *testing.T) {
	if _, err := HashPassword("12345"); err == nil {
		t.Error("5-char password accepted")
	}
	if _, err := HashPassword("123456"); err != nil {
		t.Errorf("6-char password rejected: %v", err)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$2a$10$legacybcrypthashvalue",
		"$argon2id$v=19$m=65536,t=1,p=4$notbase64!!$alsonot!!",
	}
	for _, h := range malformed {
		if VerifyPassword("anything", h) {
			t.Errorf("malformed hash %q verified", h)
		}
	}
}
