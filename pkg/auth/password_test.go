package auth

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("9812345678")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "9812345678" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("9812345678", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("9800000000", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("secret", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash accepted")
	}
}
