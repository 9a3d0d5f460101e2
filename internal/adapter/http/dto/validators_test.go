package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterClientRequest{
		Document: "  12345678  ",
		Name:     " Jane Roe ",
		Email:    "  jane@example.com  ",
		Phone:    " 555123456 ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "12345678", req.Document)
	assert.Equal(t, "Jane Roe", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, "555123456", req.Phone)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := RegisterClientRequest{
		Document: "12345678",
		Name:     "Jane <script>alert('x')</script> Roe",
		Email:    "jane@example.com",
		Phone:    "555123456",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.Name, "&lt;script&gt;")
	assert.NotContains(t, req.Name, "<script>")
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestDigits_Valid(t *testing.T) {
	cases := []string{
		"12345678",
		"000042",
		"555123456",
		"0",
	}
	for _, tc := range cases {
		assert.True(t, digitsRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestDigits_Invalid(t *testing.T) {
	cases := []string{
		"12 345",    // space
		"12a45",     // letter
		"+5551234",  // plus sign
		"12-345",    // dash
		"",          // empty
		"123\n456",  // newline
	}
	for _, tc := range cases {
		assert.False(t, digitsRe.MatchString(tc), "expected invalid: %s", tc)
	}
}

func TestSanitizeStruct_PaymentRequest(t *testing.T) {
	req := PaymentRequest{
		Document: "  12345678  ",
		Phone:    " 555123456 ",
		Amount:   300,
	}
	SanitizeStruct(&req)

	assert.Equal(t, "12345678", req.Document)
	assert.Equal(t, "555123456", req.Phone)
	assert.Equal(t, float64(300), req.Amount)
}
