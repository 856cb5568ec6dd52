// Package codes generates short human-readable reference codes, used
// for order readable ids and voucher codes. The alphabet avoids easily
// confused characters: no vowels (so no accidental words), no L, and no
// 0 or 1 digits.
package codes

import (
	"crypto/rand"
	"math/big"
	"regexp"

	"feast/internal/errors"
)

const (
	consonants = "QWRTPSDFGHJKZXCVBNM"
	digits     = "23456789"
)

// codePattern matches the CCC9CCC9 shape produced by Generate.
var codePattern = regexp.MustCompile(`^[QWRTPSDFGHJKZXCVBNM]{3}[2-9][QWRTPSDFGHJKZXCVBNM]{3}[2-9]$`)

// Generate returns a fresh 8-character code, three consonants and a
// digit, twice over (e.g. "KJS8SCR8").
func Generate() (string, error) {
	buf := make([]byte, 0, 8)

	for block := 0; block < 2; block++ {
		for i := 0; i < 3; i++ {
			c, err := pick(consonants)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}

		d, err := pick(digits)
		if err != nil {
			return "", err
		}
		buf = append(buf, d)
	}

	return string(buf), nil
}

// Valid reports whether s has the shape of a generated code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}

func pick(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, errors.Wrap(err, "failed to read random bytes")
	}

	return alphabet[n.Int64()], nil
}
