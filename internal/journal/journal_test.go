// internal/journal/journal_test.go
package journal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDisabledWithoutAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	j, err := Connect()
	require.NoError(t, err)
	assert.Nil(t, j)
}

func TestNilJournalIsInert(t *testing.T) {
	var j *Journal
	assert.NoError(t, j.Publish(context.Background(), ActionRecord{Action: "create-room"}))
	assert.NoError(t, j.Close())
}
