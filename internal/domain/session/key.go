package session

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/gravadigital/atelier-api/internal/domain/workshop"
)

// MinAdminKeyLength is the minimum accepted admin key length.
const MinAdminKeyLength = 4

// KeyVerifier hashes and compares session admin keys. The comparison strategy
// is swappable without touching callers.
type KeyVerifier interface {
	Hash(key string) (string, error)
	Compare(hash, key string) error
}

// BcryptKeyVerifier stores admin keys as bcrypt hashes and compares them in
// constant time.
type BcryptKeyVerifier struct {
	Cost int
}

// NewKeyVerifier returns the default bcrypt-backed verifier.
func NewKeyVerifier() BcryptKeyVerifier {
	return BcryptKeyVerifier{Cost: bcrypt.DefaultCost}
}

func (v BcryptKeyVerifier) Hash(key string) (string, error) {
	cost := v.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (v BcryptKeyVerifier) Compare(hash, key string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
		return workshop.Unauthorized("clé admin invalide")
	}
	return nil
}
