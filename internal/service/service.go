package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vbncursed/vkr/delegation-service/internal/condition"
	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

// Service — менеджер жизненного цикла делегирований.
// Единственный владелец изменяемого состояния: реестр активных грантов
// со счётчиками квот. Операции над одним id сериализуются через keyedMutex.
type Service struct {
	gateway  PolicyGateway
	minter   CredentialMinter
	verifier AgentVerifier
	registry Registry
	requests RequestLog
	clock    Clock
	compiler *condition.Compiler
	locks    *keyedMutex
}

func New(gateway PolicyGateway, minter CredentialMinter, verifier AgentVerifier, registry Registry, requests RequestLog, clock Clock, compiler *condition.Compiler) *Service {
	return &Service{
		gateway:  gateway,
		minter:   minter,
		verifier: verifier,
		registry: registry,
		requests: requests,
		clock:    clock,
		compiler: compiler,
		locks:    newKeyedMutex(),
	}
}

// ProcessDelegationRequest — основной сценарий: проверка агента, компиляция
// условия, создание политики и ключа, запись активного делегирования.
// Всегда возвращает структурированное решение; частичное состояние не
// остаётся — любой сбой после создания политики откатывает её.
func (s *Service) ProcessDelegationRequest(ctx context.Context, cmd ProcessRequestCommand) (ProcessRequestResult, error) {
	requestID := cmd.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	requestedAt := s.clock.Now().UTC()

	if err := cmd.Scope.Validate(); err != nil {
		return s.reject(ctx, requestID, cmd, requestedAt, "invalid scope: "+err.Error()), nil
	}

	vr, err := s.verifier.Verify(ctx, cmd.AgentID)
	if err != nil {
		return s.reject(ctx, requestID, cmd, requestedAt, "agent verification unavailable"), nil
	}
	if !vr.IsValid {
		return s.reject(ctx, requestID, cmd, requestedAt, "agent verification failed: "+vr.Reason), nil
	}

	cond := s.compiler.Compile(cmd.Scope, condition.Context{
		TradingAddress: cmd.TradingAddress,
		StorageAddress: cmd.StorageAddress,
	}, requestedAt)
	consensus := condition.ConsensusRule(cmd.AgentID)

	name := "delegation-" + cmd.AgentID + "-" + shortID(requestID)
	policyID, err := s.gateway.CreatePolicy(ctx, cmd.Namespace, name, models.EffectAllow, consensus, cond, "scoped delegation for agent "+cmd.AgentID)
	if err != nil {
		return s.reject(ctx, requestID, cmd, requestedAt, "policy creation failed: "+err.Error()), nil
	}

	credentialID, publicKey, err := s.minter.CreateSigningCredential(ctx, cmd.Namespace, cmd.AgentID)
	if err != nil {
		s.rollbackPolicy(ctx, cmd.Namespace, policyID)
		return s.reject(ctx, requestID, cmd, requestedAt, "credential creation failed: "+err.Error()), nil
	}

	expiresAt := requestedAt.Add(time.Duration(cmd.Scope.DurationSeconds) * time.Second)
	d := models.Delegation{
		ID:               uuid.New().String(),
		PolicyID:         policyID,
		CredentialID:     credentialID,
		AgentID:          cmd.AgentID,
		Namespace:        cmd.Namespace,
		SigningPublicKey: publicKey,
		Permissions:      cmd.Scope.Permissions,
		Limits:           cmd.Scope.Limits,
		ExpiresAt:        expiresAt,
		CreatedAt:        requestedAt,
		QuotaUsed:        rollWindows(models.QuotaUsage{}, requestedAt),
	}
	if err := s.registry.Insert(ctx, d); err != nil {
		if derr := s.minter.DeleteSigningCredential(ctx, cmd.Namespace, credentialID); derr != nil {
			log.Printf("delegation: credential rollback failed: %v", derr)
		}
		s.rollbackPolicy(ctx, cmd.Namespace, policyID)
		return s.reject(ctx, requestID, cmd, requestedAt, "delegation record failed: "+err.Error()), nil
	}

	s.logRequest(ctx, requestID, cmd, requestedAt, models.RequestApproved, &expiresAt)
	return ProcessRequestResult{
		RequestID:        requestID,
		Status:           models.RequestApproved,
		DelegationID:     d.ID,
		PolicyID:         policyID,
		SigningPublicKey: publicKey,
		ExpiresAt:        expiresAt,
	}, nil
}

// RevokeDelegation удаляет грант и отзывает его политику и ключ.
// false для неизвестного id; повторный вызов безопасен (true, затем false).
// Локальная запись удаляется даже при сбое платформы: клауза срока
// самоотключает политику на стороне кастодиана.
func (s *Service) RevokeDelegation(ctx context.Context, id, namespace, reason string) (bool, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	d, err := s.registry.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if namespace == "" {
		namespace = d.Namespace
	}
	s.revokeRemote(ctx, namespace, d, reason)
	return s.registry.Delete(ctx, id)
}

// EmergencyRevokeAll — аварийный отзыв всех активных делегирований.
// Продолжает обход при сбоях отдельных записей; локальный реестр
// очищается безусловно.
func (s *Service) EmergencyRevokeAll(ctx context.Context, namespace, userID, reason string) (RevokeSummary, error) {
	ds, err := s.registry.List(ctx, namespace)
	if err != nil {
		return RevokeSummary{}, err
	}

	var sum RevokeSummary
	for _, d := range ds {
		unlock := s.locks.lock(d.ID)
		if ok := s.revokeRemote(ctx, d.Namespace, d, reason); ok {
			sum.Revoked++
		} else {
			sum.Failed++
		}
		if _, err := s.registry.Delete(ctx, d.ID); err != nil {
			log.Printf("delegation: emergency delete %s: %v", d.ID, err)
		}
		unlock()
	}
	log.Printf("delegation: emergency revoke by %s (%s): revoked=%d failed=%d", userID, reason, sum.Revoked, sum.Failed)
	return sum, nil
}

// UpdateQuotaUsage прибавляет amount к счётчику окна period.
// false для неизвестного id; вызывается исполнителем транзакций после
// каждой фактически подписанной транзакции.
func (s *Service) UpdateQuotaUsage(ctx context.Context, id string, amount uint64, period models.QuotaPeriod) (bool, error) {
	if !period.Valid() {
		return false, ErrValidation
	}
	unlock := s.locks.lock(id)
	defer unlock()

	d, err := s.registry.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	usage := addUsage(rollWindows(d.QuotaUsed, s.clock.Now().UTC()), period, amount)
	if err := s.registry.UpdateQuota(ctx, id, usage); err != nil {
		return false, err
	}
	return true, nil
}

// IsQuotaExceeded — превышено ли хоть одно измерение квоты.
// Неизвестный id считается превышением (fail-closed).
func (s *Service) IsQuotaExceeded(ctx context.Context, id string, limits models.Limits) bool {
	d, err := s.registry.Get(ctx, id)
	if err != nil {
		return true
	}
	return exceeded(rollWindows(d.QuotaUsed, s.clock.Now().UTC()), limits)
}

// CleanupExpiredDelegations выметает истёкшие гранты: ключ и запись
// удаляются, удаление политики на платформе — best-effort, поскольку
// клауза срока уже отключила её.
func (s *Service) CleanupExpiredDelegations(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.registry.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	cleaned := 0
	for _, d := range expired {
		unlock := s.locks.lock(d.ID)
		if err := s.minter.DeleteSigningCredential(ctx, d.Namespace, d.CredentialID); err != nil {
			log.Printf("delegation: expired credential delete %s: %v", d.ID, err)
		}
		if err := s.gateway.DeletePolicy(ctx, d.Namespace, d.PolicyID); err != nil {
			log.Printf("delegation: expired policy delete %s: %v", d.ID, err)
		}
		ok, err := s.registry.Delete(ctx, d.ID)
		if err != nil {
			log.Printf("delegation: expired record delete %s: %v", d.ID, err)
		} else if ok {
			cleaned++
		}
		unlock()
	}
	return cleaned, nil
}

// GetActiveDelegations — активные и неистёкшие гранты пространства имён
func (s *Service) GetActiveDelegations(ctx context.Context, namespace string) ([]models.Delegation, error) {
	ds, err := s.registry.List(ctx, namespace)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	out := ds[:0]
	for _, d := range ds {
		if !d.Expired(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

// revokeRemote отзывает политику и ключ с одним повтором на каждую
// операцию; true, если политика удалена
func (s *Service) revokeRemote(ctx context.Context, namespace string, d models.Delegation, reason string) bool {
	credErr := retryOnce(func() error {
		return s.minter.DeleteSigningCredential(ctx, namespace, d.CredentialID)
	})
	if credErr != nil {
		log.Printf("delegation: revoke credential %s (%s): %v", d.ID, reason, credErr)
	}
	polErr := retryOnce(func() error {
		return s.gateway.DeletePolicy(ctx, namespace, d.PolicyID)
	})
	if polErr != nil {
		log.Printf("delegation: revoke policy %s (%s): %v", d.ID, reason, polErr)
	}
	return polErr == nil
}

func (s *Service) rollbackPolicy(ctx context.Context, namespace, policyID string) {
	if err := retryOnce(func() error { return s.gateway.DeletePolicy(ctx, namespace, policyID) }); err != nil {
		log.Printf("delegation: policy rollback %s: %v", policyID, err)
	}
}

func (s *Service) reject(ctx context.Context, requestID string, cmd ProcessRequestCommand, requestedAt time.Time, reason string) ProcessRequestResult {
	s.logRequest(ctx, requestID, cmd, requestedAt, models.RequestRejected, nil)
	return ProcessRequestResult{RequestID: requestID, Status: models.RequestRejected, Reason: reason}
}

func (s *Service) logRequest(ctx context.Context, requestID string, cmd ProcessRequestCommand, requestedAt time.Time, status models.RequestStatus, expiresAt *time.Time) {
	decidedAt := s.clock.Now().UTC()
	req := models.DelegationRequest{
		ID:          requestID,
		AgentID:     cmd.AgentID,
		Scope:       cmd.Scope,
		Status:      status,
		RequestedAt: requestedAt,
		DecidedAt:   &decidedAt,
		ExpiresAt:   expiresAt,
	}
	if err := s.requests.SaveRequest(ctx, req); err != nil {
		log.Printf("delegation: request log %s: %v", requestID, err)
	}
}

func retryOnce(f func() error) error {
	if err := f(); err != nil {
		return f()
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
