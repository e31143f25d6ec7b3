package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GeneratePlayerID returns a public player identifier like PLR-4821.
func GeneratePlayerID() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "PLR-0000"
	}
	return fmt.Sprintf("PLR-%04d", n.Int64())
}
