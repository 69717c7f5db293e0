package custody

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
	"github.com/vbncursed/vkr/delegation-service/internal/service"
)

// Client — адаптер платформы кастодиана: политики и подписывающие ключи.
// Тонкая обёртка над HTTP API, вся бизнес-логика остаётся в service.
// Реализует service.PolicyGateway и service.CredentialMinter.
type Client struct {
	baseURL  string
	apiKey   string
	http     *http.Client
	maxTries uint
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:  baseURL,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
		maxTries: 3,
	}
}

// CreatePolicy создаёт политику и возвращает её идентификатор.
// Не идемпотентна: каждый вызов создаёт новую политику, поэтому
// автоматических повторов здесь нет.
func (c *Client) CreatePolicy(ctx context.Context, namespace, name string, effect models.PolicyEffect, consensusRule, condition, notes string) (string, error) {
	res, err := c.submit(ctx, "create_policy", namespace, map[string]any{
		"policyName":      name,
		"policyEffect":    string(effect),
		"policyConsensus": consensusRule,
		"policyCondition": condition,
		"policyNotes":     notes,
	})
	if err != nil {
		return "", err
	}
	policyID := gjson.GetBytes(res, "activity.result.createPolicyResult.policyId").String()
	if policyID == "" {
		return "", fmt.Errorf("%w: create_policy returned no policy id", service.ErrPlatformRejected)
	}
	return policyID, nil
}

// UpdatePolicy меняет поля существующей политики; пустые поля не трогаются
func (c *Client) UpdatePolicy(ctx context.Context, namespace, policyID string, name string, effect models.PolicyEffect, consensusRule, condition, notes string) error {
	params := map[string]any{"policyId": policyID}
	if name != "" {
		params["policyName"] = name
	}
	if effect != "" {
		params["policyEffect"] = string(effect)
	}
	if consensusRule != "" {
		params["policyConsensus"] = consensusRule
	}
	if condition != "" {
		params["policyCondition"] = condition
	}
	if notes != "" {
		params["policyNotes"] = notes
	}
	_, err := c.submit(ctx, "update_policy", namespace, params)
	return err
}

// DeletePolicy удаляет политику. Один вызов без повторов: политику,
// которой уже нет, платформа подтверждает 404, что не считается ошибкой.
func (c *Client) DeletePolicy(ctx context.Context, namespace, policyID string) error {
	_, err := c.submit(ctx, "delete_policy", namespace, map[string]any{"policyId": policyID})
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

// GetPolicy читает политику; повторяется с backoff при недоступности
func (c *Client) GetPolicy(ctx context.Context, namespace, policyID string) (models.Policy, error) {
	op := func() (models.Policy, error) {
		res, err := c.do(ctx, "/public/v1/query/get_policy", map[string]any{
			"organizationId": namespace,
			"policyId":       policyID,
		})
		if err != nil {
			return models.Policy{}, markPermanent(err)
		}
		p := gjson.GetBytes(res, "policy")
		return models.Policy{
			ID:            p.Get("policyId").String(),
			Name:          p.Get("policyName").String(),
			Effect:        models.PolicyEffect(p.Get("effect").String()),
			ConsensusRule: p.Get("consensus").String(),
			Condition:     p.Get("condition").String(),
			Namespace:     namespace,
			CreatedAt:     time.UnixMilli(p.Get("createdAt").Int()).UTC(),
		}, nil
	}
	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries))
}

// CreateSigningCredential выпускает ключ агента; материал ключа остаётся
// на платформе, возвращаются идентификатор и публичный ключ
func (c *Client) CreateSigningCredential(ctx context.Context, namespace, agentID string) (string, string, error) {
	res, err := c.submit(ctx, "create_signing_credential", namespace, map[string]any{
		"agentId": agentID,
	})
	if err != nil {
		return "", "", err
	}
	cred := gjson.GetBytes(res, "activity.result.createSigningCredentialResult")
	id := cred.Get("credentialId").String()
	pub := cred.Get("publicKey").String()
	if id == "" || pub == "" {
		return "", "", fmt.Errorf("%w: create_signing_credential returned no credential", service.ErrPlatformRejected)
	}
	return id, pub, nil
}

// DeleteSigningCredential удаляет ключ; отсутствие ключа — не ошибка
func (c *Client) DeleteSigningCredential(ctx context.Context, namespace, credentialID string) error {
	_, err := c.submit(ctx, "delete_signing_credential", namespace, map[string]any{
		"credentialId": credentialID,
	})
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

// submit отправляет активность в конверте платформы
func (c *Client) submit(ctx context.Context, activity, namespace string, params map[string]any) ([]byte, error) {
	return c.do(ctx, "/public/v1/submit/"+activity, map[string]any{
		"type":           "ACTIVITY_TYPE_" + upper(activity),
		"timestampMs":    strconv.FormatInt(time.Now().UnixMilli(), 10),
		"organizationId": namespace,
		"parameters":     params,
	})
}

func (c *Client) do(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrPlatformUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return data, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", service.ErrUnauthorized, remoteMessage(data))
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", service.ErrNotFound, remoteMessage(data))
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		// так платформа отклоняет невалидное условие — дефект компилятора,
		// повторять бессмысленно
		return nil, fmt.Errorf("%w: %s", service.ErrPlatformRejected, remoteMessage(data))
	default:
		return nil, fmt.Errorf("%w: http %d: %s", service.ErrPlatformUnavailable, resp.StatusCode, remoteMessage(data))
	}
}

func remoteMessage(data []byte) string {
	if msg := gjson.GetBytes(data, "error").String(); msg != "" {
		return msg
	}
	if msg := gjson.GetBytes(data, "message").String(); msg != "" {
		return msg
	}
	return "no details"
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrNotFound)
}

// markPermanent оставляет повторяемой только недоступность платформы
func markPermanent(err error) error {
	if errors.Is(err, service.ErrPlatformUnavailable) {
		return err
	}
	return backoff.Permanent(err)
}

func upper(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'a' && ch <= 'z' {
			b[i] = ch - 'a' + 'A'
		}
	}
	return string(b)
}
