// Package commit binds roll results to a secret salt with a SHA-256 digest.
//
// The digest covers the JSON document {"results":[...],"salt":"..."} so anyone
// holding the results and salt can recompute it with a stock JSON encoder and
// SHA-256, in any language.
package commit

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SaltLength is the salt length in nanoid characters (6 bits each, 192 bits total).
const SaltLength = 32

// HashLength is the length of a hex encoded digest.
const HashLength = sha256.Size * 2

type payload struct {
	Results []int  `json:"results"`
	Salt    string `json:"salt"`
}

// NewSalt returns a fresh random salt.
func NewSalt() (string, error) {
	salt, err := gonanoid.New(SaltLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// Encode returns the canonical byte form of (results, salt).
func Encode(results []int, salt string) []byte {
	if results == nil {
		results = []int{}
	}
	// Marshalling ints and a string cannot fail.
	data, _ := json.Marshal(payload{Results: results, Salt: salt})
	return data
}

// Hash returns the lowercase hex SHA-256 of the canonical encoding.
func Hash(results []int, salt string) string {
	sum := sha256.Sum256(Encode(results, salt))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether results and salt open the commitment hash.
func Verify(results []int, salt, hash string) bool {
	want := Hash(results, salt)
	return subtle.ConstantTimeCompare([]byte(want), []byte(hash)) == 1
}
