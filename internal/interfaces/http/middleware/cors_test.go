package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"exact match", "https://shop.example.com", []string{"https://shop.example.com"}, true},
		{"wildcard matches everything", "https://anywhere.test", []string{"*"}, true},
		{"subdomain wildcard", "https://admin.example.com", []string{"*.example.com"}, true},
		{"no match", "https://evil.test", []string{"https://shop.example.com"}, false},
		{"empty allow list", "https://shop.example.com", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, tt.allowed))
		})
	}
}
