package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("caseflow123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "caseflow123" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !Verify("caseflow123", hash) {
		t.Error("correct password rejected")
	}
	if Verify("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	if a != b {
		t.Error("same token must hash identically")
	}
	if a == HashToken("other-token") {
		t.Error("different tokens must hash differently")
	}
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(a))
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"", false},
		{"short", false},
		{"1234567", false},
		{"12345678", true},
		{"a-much-longer-password", true},
	}
	for _, tc := range cases {
		if got := ValidatePassword(tc.password); got != tc.want {
			t.Errorf("ValidatePassword(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
