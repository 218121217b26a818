package password

import "testing"

func TestHash_SaltedPerCall(t *testing.T) {
	h1, err := Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different hashes for same plaintext")
	}
	if !Check("secret1", h1) || !Check("secret1", h2) {
		t.Fatalf("expected both hashes to verify")
	}
}

func TestCheck_WrongPassword(t *testing.T) {
	h, err := Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if Check("wrong", h) {
		t.Fatalf("expected mismatch")
	}
	if Check("secret1", "not-a-hash") {
		t.Fatalf("expected invalid hash to fail")
	}
}
