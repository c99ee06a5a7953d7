package auth_test

import (
	"crypto/rand"
	"testing"

	"github.com/pitchside/backend/internal/auth"
)

func TestPasswordHasher(t *testing.T) {
	hasher := auth.NewBcryptPasswordHasher(0)

	hash, err := hasher.Hash("Abcdef12")
	if err != nil {
		t.Errorf("Hash failed: %v", err)
	}
	if hash == "Abcdef12" {
		t.Error("hash must not equal the plaintext")
	}
	if err := hasher.Verify(hash, "Abcdef12"); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
	if err := hasher.Verify(hash, "wrong-password"); err == nil {
		t.Error("Verify should have failed for a wrong password")
	}

	t.Run("TestTooLongPassword", func(t *testing.T) {
		tooLongPass := make([]byte, 73)
		rand.Read(tooLongPass)

		_, err := hasher.Hash(string(tooLongPass))
		if err == nil {
			t.Errorf("Hash should have failed")
		}
	})
}
