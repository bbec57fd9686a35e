package utils

import (
	"crypto/rand"
	"math/big"
)

// Confusable characters (0, O, l, 1) are excluded.
const alphanumeric = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns n characters from crypto/rand.
func GenerateRandomString(n int) string {
	result := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphanumeric))))
		if err != nil {
			// crypto/rand failure; degrade rather than panic
			result[i] = alphanumeric[i%len(alphanumeric)]
			continue
		}
		result[i] = alphanumeric[num.Int64()]
	}
	return string(result)
}
