package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsManagedKey(t *testing.T) {
	tests := []struct {
		value   string
		managed bool
	}{
		{"uploads/abc.jpg", true},
		{"uploads/", true},
		{"https://images.example.com/legacy.jpg", false},
		{"legacy/uploads/abc.jpg", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.managed, IsManagedKey(tt.value), tt.value)
	}
}

func TestNewKey(t *testing.T) {
	key := newKey("Photo.JPG")
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
	assert.True(t, strings.HasSuffix(key, ".jpg"), "extension is lowercased: %s", key)

	// fresh key per call
	assert.NotEqual(t, key, newKey("Photo.JPG"))

	// no extension is fine
	bare := newKey("photo")
	assert.True(t, strings.HasPrefix(bare, KeyPrefix))
	assert.False(t, strings.Contains(strings.TrimPrefix(bare, KeyPrefix), "."))
}
