package argon

import (
	"strings"
	"testing"
)

func TestCreateHashAndCompare(t *testing.T) {
	hash, err := CreateHash("correct horse battery staple")
	if err != nil {
		t.Fatalf("CreateHash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := ComparePasswordAndHash("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("ComparePasswordAndHash: %v", err)
	}
	if !ok {
		t.Fatal("correct password should verify")
	}

	ok, err = ComparePasswordAndHash("wrong password", hash)
	if err != nil {
		t.Fatalf("ComparePasswordAndHash: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestCreateHash_EmptyPassword(t *testing.T) {
	if _, err := CreateHash("   "); err == nil {
		t.Fatal("expected error for blank password")
	}
}

func TestCompare_MalformedHash(t *testing.T) {
	if _, err := ComparePasswordAndHash("pw", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}
