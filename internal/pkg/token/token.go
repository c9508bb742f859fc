package token

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Length is the number of characters in a minted bearer token.
const Length = 32

// alphabet omits characters that are easy to misread (0/O/o, 1/l/I).
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

// New generates a cryptographically random 32-character bearer token drawn
// uniformly from an unambiguous alphanumeric alphabet.
func New() (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}

// Equal reports whether presented is byte-equal to stored. An empty
// presented token never matches.
func Equal(stored, presented string) bool {
	if presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
