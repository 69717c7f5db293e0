package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/delegation-service/internal/condition"
	"github.com/vbncursed/vkr/delegation-service/internal/config"
	"github.com/vbncursed/vkr/delegation-service/internal/http/dto"
	"github.com/vbncursed/vkr/delegation-service/internal/models"
	dsvc "github.com/vbncursed/vkr/delegation-service/internal/service"
)

type stubGateway struct{ n int }

func (g *stubGateway) CreatePolicy(context.Context, string, string, models.PolicyEffect, string, string, string) (string, error) {
	g.n++
	return "policy-1", nil
}
func (g *stubGateway) DeletePolicy(context.Context, string, string) error { return nil }
func (g *stubGateway) GetPolicy(context.Context, string, string) (models.Policy, error) {
	return models.Policy{}, dsvc.ErrNotFound
}

type stubMinter struct{}

func (stubMinter) CreateSigningCredential(context.Context, string, string) (string, string, error) {
	return "cred-1", "PUBKEY", nil
}
func (stubMinter) DeleteSigningCredential(context.Context, string, string) error { return nil }

func newTestRouter(t *testing.T) (*echo.Echo, *stubGateway) {
	t.Helper()
	mem := dsvc.NewMemoryRegistry()
	g := &stubGateway{}
	svc := dsvc.New(g, stubMinter{}, dsvc.NewRuleVerifier(8, nil), mem, mem, dsvc.RealClock{}, condition.NewCompiler())
	return Router(svc, nil, config.Config{}), g
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

const createBody = `{
  "agent_id": "trading-bot-01",
  "user_id": "user-1",
  "namespace": "org-sub-1",
  "scope": {
    "permissions": [{"action": "TRANSFER"}],
    "programs": [],
    "tokens": ["USDC_MINT"],
    "limits": {"per_transaction": 1000000, "daily": 5000000, "weekly": 20000000},
    "duration_seconds": 3600
  }
}`

func TestCreateDelegationApproved(t *testing.T) {
	e, g := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res dto.CreateDelegationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Approved", res.Status)
	assert.Equal(t, "policy-1", res.PolicyID)
	assert.NotEmpty(t, res.DelegationID)
	assert.Equal(t, 1, g.n)
}

func TestCreateDelegationRejectedShortAgent(t *testing.T) {
	e, g := newTestRouter(t)
	body := strings.Replace(createBody, "trading-bot-01", "bot", 1)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.CreateDelegationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Rejected", res.Status)
	assert.Contains(t, res.Reason, "agent")
	assert.Equal(t, 0, g.n)
}

func TestCreateDelegationMissingNamespace(t *testing.T) {
	e, _ := newTestRouter(t)
	body := strings.Replace(createBody, `"org-sub-1"`, `""`, 1)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDelegationUnknownField(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", `{"bogus": true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRevokeUnknownDelegation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations/ghost/revoke", `{"reason":"test"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRevokeFlow(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dto.CreateDelegationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(e, http.MethodPost, "/api/v1/delegations/"+created.DelegationID+"/revoke", `{"reason":"done"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// повторный отзыв — уже not found
	rec = doJSON(e, http.MethodPost, "/api/v1/delegations/"+created.DelegationID+"/revoke", `{"reason":"done"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmergencyRevoke(t *testing.T) {
	e, _ := newTestRouter(t)

	for i := 0; i < 2; i++ {
		rec := doJSON(e, http.MethodPost, "/api/v1/delegations", createBody)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations/emergency-revoke",
		`{"namespace":"org-sub-1","user_id":"user-1","reason":"kill switch"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var sum dto.EmergencyRevokeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, 2, sum.Revoked)
	assert.Equal(t, 0, sum.Failed)

	rec = doJSON(e, http.MethodGet, "/api/v1/delegations?namespace=org-sub-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list dto.DelegationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Zero(t, list.Count)
}

func TestEmergencyRevokeRequiresReason(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations/emergency-revoke", `{"user_id":"user-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuotaEndpoints(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations", createBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created dto.CreateDelegationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id := created.DelegationID

	check := func() bool {
		rec := doJSON(e, http.MethodGet, "/api/v1/delegations/"+id+"/quota?daily=5000000&weekly=20000000", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var res dto.QuotaCheckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		return res.Exceeded
	}

	assert.False(t, check())

	rec = doJSON(e, http.MethodPost, "/api/v1/delegations/"+id+"/quota", `{"amount":3000000,"period":"daily"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, check())

	rec = doJSON(e, http.MethodPost, "/api/v1/delegations/"+id+"/quota", `{"amount":3000000,"period":"daily"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, check())
}

func TestQuotaUpdateValidation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPost, "/api/v1/delegations/any/quota", `{"amount":0,"period":"daily"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(e, http.MethodPost, "/api/v1/delegations/any/quota", `{"amount":10,"period":"hourly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodGet, "/api/v1/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = doJSON(e, http.MethodGet, "/api/v1/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
