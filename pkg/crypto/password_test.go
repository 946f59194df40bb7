package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Fatalf("expected password to verify against its own hash")
	}
	if CheckPassword(hash, "wrong password") {
		t.Fatalf("expected mismatch for wrong password")
	}
}

func TestHashPasswordCostFloor(t *testing.T) {
	hash, err := HashPassword("p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cost, err := bcrypt.Cost(hash)
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost < 10 {
		t.Fatalf("work factor %d below the required floor of 10", cost)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	for _, malformed := range []string{"", "not-a-hash", "$2a$totally$broken"} {
		if CheckPassword([]byte(malformed), "p") {
			t.Fatalf("malformed hash %q must not verify", malformed)
		}
	}
}
