package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	e := New(FeedbackSubmitted, at, nil)

	assert.Equal(t, FeedbackSubmitted, e.EventType())
	assert.Equal(t, at, e.Timestamp())
	assert.NotNil(t, e.Payload())

	raw, err := json.Marshal(New(UserLogin, at, map[string]interface{}{"username": "alice"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"USER_LOGIN","data":{"username":"alice"},"occurred_at":"2026-02-03T04:05:06Z"}`, string(raw))
}
