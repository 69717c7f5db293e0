package service

import (
	"context"
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

// Clock — абстракция времени для тестируемости
type Clock interface {
	Now() time.Time
}

// PolicyGateway — порт платформы кастодиана для операций над политиками
type PolicyGateway interface {
	CreatePolicy(ctx context.Context, namespace, name string, effect models.PolicyEffect, consensusRule, condition, notes string) (policyID string, err error)
	DeletePolicy(ctx context.Context, namespace, policyID string) error
	GetPolicy(ctx context.Context, namespace, policyID string) (models.Policy, error)
}

// CredentialMinter — выпуск и удаление подписывающих ключей на платформе.
// Ключевой материал никогда не попадает в это ядро, возвращается только
// идентификатор и публичный ключ.
type CredentialMinter interface {
	CreateSigningCredential(ctx context.Context, namespace, agentID string) (credentialID, publicKey string, err error)
	DeleteSigningCredential(ctx context.Context, namespace, credentialID string) error
}

// AgentDirectory — справочник агентов для проверки личности
type AgentDirectory interface {
	Lookup(ctx context.Context, agentID string) (exists bool, metadata map[string]string, err error)
}

// VerifyResult — результат проверки агента
type VerifyResult struct {
	IsValid    bool
	Reputation float64
	Reason     string
}

// AgentVerifier — проверка заявленной личности агента; заменяемая реализация
type AgentVerifier interface {
	Verify(ctx context.Context, agentID string) (VerifyResult, error)
}

// Registry — хранилище активных делегирований за единым интерфейсом.
// Реализации: память (один процесс) и Postgres (internal/repo).
type Registry interface {
	Insert(ctx context.Context, d models.Delegation) error
	Get(ctx context.Context, id string) (models.Delegation, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, namespace string) ([]models.Delegation, error)
	ListExpired(ctx context.Context, now time.Time) ([]models.Delegation, error)
	UpdateQuota(ctx context.Context, id string, usage models.QuotaUsage) error
}

// RequestLog — журнал решений по запросам на делегирование
type RequestLog interface {
	SaveRequest(ctx context.Context, req models.DelegationRequest) error
}

// ProcessRequestCommand — команда кейса обработки запроса
type ProcessRequestCommand struct {
	RequestID      string // пустой — сгенерируется
	AgentID        string
	UserID         string
	Namespace      string
	Scope          models.Scope
	TradingAddress string
	StorageAddress string
}

// ProcessRequestResult — структурированное решение: статус и причина,
// а не исключение, чтобы вызывающая сторона показывала отказ как есть
type ProcessRequestResult struct {
	RequestID        string
	Status           models.RequestStatus
	Reason           string
	DelegationID     string
	PolicyID         string
	SigningPublicKey string
	ExpiresAt        time.Time
}

// RevokeSummary — итог аварийного отзыва
type RevokeSummary struct {
	Revoked int
	Failed  int
}
