package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScopeValidate(t *testing.T) {
	s := Scope{
		Permissions:     []Permission{{Action: ActionTransfer}},
		Limits:          Limits{PerTransaction: 10, Daily: 5, Weekly: 100},
		DurationSeconds: 1,
	}
	// per_transaction выше daily — допустимо
	assert.NoError(t, s.Validate())

	s.DurationSeconds = 0
	assert.ErrorIs(t, s.Validate(), ErrDurationNotPositive)

	s.DurationSeconds = 1
	s.Permissions = []Permission{{Action: "TELEPORT"}}
	assert.ErrorIs(t, s.Validate(), ErrUnknownAction)
}

func TestDelegationExpired(t *testing.T) {
	now := time.Unix(1000, 0)
	d := Delegation{ExpiresAt: now}
	assert.True(t, d.Expired(now))
	assert.True(t, d.Expired(now.Add(time.Second)))
	assert.False(t, d.Expired(now.Add(-time.Second)))
}
