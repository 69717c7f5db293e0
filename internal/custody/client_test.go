package custody

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
	"github.com/vbncursed/vkr/delegation-service/internal/service"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key")
}

func TestCreatePolicyParsesActivityEnvelope(t *testing.T) {
	var gotPath, gotKey string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		_, _ = w.Write([]byte(`{"activity":{"status":"ACTIVITY_STATUS_COMPLETED","result":{"createPolicyResult":{"policyId":"pol-42"}}}}`))
	})

	id, err := c.CreatePolicy(context.Background(), "org-1", "delegation-bot", models.EffectAllow,
		"approvers.any(user, user.id == 'bot')", "now() < 100", "notes")

	require.NoError(t, err)
	assert.Equal(t, "pol-42", id)
	assert.Equal(t, "/public/v1/submit/create_policy", gotPath)
	assert.Equal(t, "test-key", gotKey)
}

func TestCreatePolicyEmptyResultRejected(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"activity":{"result":{}}}`))
	})

	_, err := c.CreatePolicy(context.Background(), "org-1", "n", models.EffectAllow, "c", "c", "")
	assert.ErrorIs(t, err, service.ErrPlatformRejected)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, service.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, service.ErrUnauthorized},
		{"bad condition", http.StatusUnprocessableEntity, service.ErrPlatformRejected},
		{"malformed", http.StatusBadRequest, service.ErrPlatformRejected},
		{"server error", http.StatusBadGateway, service.ErrPlatformUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			})
			_, err := c.CreatePolicy(context.Background(), "org-1", "n", models.EffectAllow, "c", "c", "")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDeletePolicyNotFoundIsNoop(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"no such policy"}`))
	})

	assert.NoError(t, c.DeletePolicy(context.Background(), "org-1", "pol-404"))
}

func TestGetPolicyRetriesOnUnavailable(t *testing.T) {
	attempts := 0
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"policy":{"policyId":"pol-1","policyName":"delegation-bot","effect":"EFFECT_ALLOW","consensus":"c","condition":"now() < 100","createdAt":1000}}`))
	})

	p, err := c.GetPolicy(context.Background(), "org-1", "pol-1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, "pol-1", p.ID)
	assert.Equal(t, models.EffectAllow, p.Effect)
}

func TestGetPolicyUnauthorizedNotRetried(t *testing.T) {
	attempts := 0
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.GetPolicy(context.Background(), "org-1", "pol-1")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	assert.Equal(t, 1, attempts)
}

func TestCreateSigningCredential(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"activity":{"result":{"createSigningCredentialResult":{"credentialId":"cred-7","publicKey":"PUB"}}}}`))
	})

	id, pub, err := c.CreateSigningCredential(context.Background(), "org-1", "trading-bot-01")
	require.NoError(t, err)
	assert.Equal(t, "cred-7", id)
	assert.Equal(t, "PUB", pub)
}
