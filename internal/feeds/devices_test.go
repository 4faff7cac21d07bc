// SPDX-License-Identifier: MIT

package feeds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := NewRegistry()

	d, err := reg.Register("HTC Streaming Player", "10.0.0.2:1234")
	require.NoError(t, err)
	assert.Len(t, d.ID, 7)
	for _, c := range d.ID {
		assert.Contains(t, deviceAlphabet, string(c))
	}

	got, ok := reg.Lookup(d.ID)
	require.True(t, ok)
	assert.Equal(t, "HTC Streaming Player", got.UserAgent)
}

func TestRegisterUniqueIDs(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		d, err := reg.Register("", "")
		require.NoError(t, err)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
	}
	assert.Equal(t, 200, reg.Len())
}

func TestDeviceKeyShape(t *testing.T) {
	// The firmware parses the key as base64; keep the shape stable.
	assert.True(t, strings.HasSuffix(DeviceKey, "="))
	assert.Len(t, DeviceKey, 44)
}
