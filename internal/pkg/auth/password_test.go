package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestNewBcryptHasher_Cost(t *testing.T) {
	cases := map[int]int{
		0:                      bcrypt.DefaultCost,
		bcrypt.MinCost - 1:     bcrypt.DefaultCost,
		bcrypt.MinCost:         bcrypt.MinCost,
		bcrypt.DefaultCost + 2: bcrypt.DefaultCost + 2,
	}
	for in, want := range cases {
		if got := NewBcryptHasher(in).cost; got != want {
			t.Fatalf("cost %d: expected %d, got %d", in, want, got)
		}
	}
}

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("levain")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "levain" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash: %q", hash)
	}
	if err := hasher.Compare(hash, "levain"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "baguette"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestBcryptHasher_CorruptHash(t *testing.T) {
	err := NewBcryptHasher(bcrypt.MinCost).Compare("not-a-bcrypt-hash", "levain")
	if err == nil || errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected a non-mismatch error, got %v", err)
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	if _, err := hasher.Hash(strings.Repeat("a", 73)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := hasher.Hash(strings.Repeat("a", 72)); err != nil {
		t.Fatalf("72 bytes must hash: %v", err)
	}
}

func TestBcryptHasher_HashError(t *testing.T) {
	hasher := &BcryptHasher{cost: bcrypt.MaxCost + 1}
	if _, err := hasher.Hash("password"); err == nil {
		t.Fatal("expected hash error for invalid cost")
	}
}
