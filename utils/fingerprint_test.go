package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestU64ToBytes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, U64ToBytes(0x0102))
	assert.Equal(t, []byte{0xff, 0, 0, 0, 0, 0, 0, 0}, U64ToBytes(0xff<<56))
}

func TestFingerprintString(t *testing.T) {
	// FNV-1a offset basis
	assert.Equal(t, uint64(0xcbf29ce484222325), FingerprintString(""))
	assert.Equal(t, FingerprintString("name"), FingerprintString("name"))
	assert.NotEqual(t, FingerprintString("name"), FingerprintString("Name"))
}

func TestMix64IsOrdered(t *testing.T) {
	a, b := FingerprintString("a"), FingerprintString("b")
	assert.NotEqual(t, Mix64(a, b), Mix64(b, a))
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		left  []string
		right []string
		equal bool
	}{
		{"same parts", []string{"get:name:string"}, []string{"get:name:string"}, true},
		{"split boundary", []string{"ab", "c"}, []string{"a", "bc"}, false},
		{"order", []string{"x", "y"}, []string{"y", "x"}, false},
		{"extra part", []string{"x"}, []string{"x", ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.equal {
				assert.Equal(t, Fingerprint(tt.left...), Fingerprint(tt.right...))
			} else {
				assert.NotEqual(t, Fingerprint(tt.left...), Fingerprint(tt.right...))
			}
		})
	}
}
