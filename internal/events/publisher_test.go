package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docconf/internal/config"
)

func TestPublisherDisabledWithoutURL(t *testing.T) {
	p, err := NewNATSPublisher(config.NATSConfig{})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestNilPublisherIsSafe(t *testing.T) {
	var p *NATSPublisher
	assert.NoError(t, p.Publish(ValidationEvent{Repo: "sample"}))
	p.Close()
}

func TestValidationEventWireShape(t *testing.T) {
	event := ValidationEvent{
		RunID:     "0c1df56b-4f3e-4d7a-8f3a-1f2e3d4c5b6a",
		Repo:      "sample",
		Outcome:   "error",
		Errors:    2,
		Warnings:  1,
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "sample", decoded["repo"])
	assert.Equal(t, "error", decoded["outcome"])
	assert.Equal(t, float64(2), decoded["errors"])
	assert.Equal(t, "2026-03-01T10:00:00Z", decoded["timestamp"])
}
