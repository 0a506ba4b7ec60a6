package users

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	tempPasswordLength = 12
	lowerChars         = "abcdefghijkmnopqrstuvwxyz"
	upperChars         = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	digitChars         = "23456789"
	symbolChars        = "!@#$%*?"
)

// TemporaryPassword returns a random password with at least one lower, upper, digit and
// symbol character. Ambiguous characters (0/O, 1/l/I) are left out.
func TemporaryPassword() (string, error) {
	sets := []string{lowerChars, upperChars, digitChars, symbolChars}
	all := strings.Join(sets, "")

	out := make([]byte, 0, tempPasswordLength)
	for _, set := range sets {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < tempPasswordLength {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}
	return string(out), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
