// internal/room/registry_test.go
package room

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGeneratesCanonicalCode(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create(uuid.New(), "host", nil)

	require.Len(t, r.Code, codeLength)
	for i := 0; i < len(r.Code); i++ {
		assert.Contains(t, codeAlphabet, string(r.Code[i]))
	}
	assert.Equal(t, strings.ToUpper(r.Code), r.Code)

	require.Len(t, r.Players, 1)
	assert.Equal(t, r.Players[0].ID, r.HostID, "creator is sole player and host")
	assert.False(t, r.GameStarted)
	assert.Nil(t, r.Round)
}

func TestGetIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create(uuid.New(), "host", nil)

	got, ok := reg.Get(strings.ToLower(r.Code))
	require.True(t, ok)
	assert.Same(t, r, got)

	_, ok = reg.Get("NOSUCH")
	assert.False(t, ok)
}

func TestDeleteRemovesRoom(t *testing.T) {
	reg := NewRegistry()
	r := reg.Create(uuid.New(), "host", nil)
	require.Equal(t, 1, reg.Len())

	reg.Delete(strings.ToLower(r.Code))
	assert.Equal(t, 0, reg.Len())
	_, ok := reg.Get(r.Code)
	assert.False(t, ok)
}

func TestCreatedCodesAreUnique(t *testing.T) {
	reg := NewRegistry()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		r := reg.Create(uuid.New(), "host", nil)
		require.False(t, seen[r.Code], "registry must never hand out a live code twice")
		seen[r.Code] = true
	}
	assert.Equal(t, 200, reg.Len())
}

func TestRoomsReturnsAllActive(t *testing.T) {
	reg := NewRegistry()
	a := reg.Create(uuid.New(), "a", nil)
	b := reg.Create(uuid.New(), "b", nil)

	codes := map[string]bool{}
	for _, r := range reg.Rooms() {
		codes[r.Code] = true
	}
	assert.True(t, codes[a.Code])
	assert.True(t, codes[b.Code])
	assert.Len(t, codes, 2)
}
