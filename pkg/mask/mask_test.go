package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular", "johndoe@example.com", "j***e@example.com"},
		{"two char local", "jo@example.com", "j***@example.com"},
		{"single char local", "j@example.com", "j***@example.com"},
		{"three char local", "joe@example.com", "j***e@example.com"},
		{"no at sign", "not-an-email", "not-an-email"},
		{"empty", "", ""},
		{"trailing at", "user@", "user@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.email))
		})
	}
}
