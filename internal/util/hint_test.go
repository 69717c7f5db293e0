package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentHint(t *testing.T) {
	assert.Equal(t, "tra…-01", AgentHint("trading-bot-01"))
	assert.Equal(t, "bot", AgentHint("bot"))
	assert.Equal(t, "abc123", AgentHint("  abc123  "))
	assert.Equal(t, "", AgentHint(""))
}
