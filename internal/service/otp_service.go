package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomOtpGenerator implements ports.OtpGenerator with a CSPRNG.
// Codes are uniformly distributed over "000000"–"999999"; leading zeros
// are part of the code and must survive storage and comparison, so codes
// are strings, never integers.
type RandomOtpGenerator struct{}

// NewOtpGenerator creates a RandomOtpGenerator.
func NewOtpGenerator() *RandomOtpGenerator {
	return &RandomOtpGenerator{}
}

var otpMax = big.NewInt(1000000)

// Generate returns a 6-digit numeric one-time code.
func (g *RandomOtpGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
