package service

import (
	"context"
	"strings"
)

// DefaultMinAgentIDLen — минимальная длина идентификатора агента
const DefaultMinAgentIDLen = 8

// RuleVerifier — эвристическая проверка агента: длина и алфавит
// идентификатора плюс необязательный справочник. Ни одна политика не
// создаётся для агента, не прошедшего Verify.
type RuleVerifier struct {
	MinLen    int
	Directory AgentDirectory // nil — только локальные правила
}

func NewRuleVerifier(minLen int, dir AgentDirectory) *RuleVerifier {
	if minLen <= 0 {
		minLen = DefaultMinAgentIDLen
	}
	return &RuleVerifier{MinLen: minLen, Directory: dir}
}

func (v *RuleVerifier) Verify(ctx context.Context, agentID string) (VerifyResult, error) {
	id := strings.TrimSpace(agentID)
	if len(id) < v.MinLen {
		return VerifyResult{Reason: "agent id too short"}, nil
	}
	for _, r := range id {
		if !isAgentIDRune(r) {
			return VerifyResult{Reason: "agent id has invalid characters"}, nil
		}
	}
	if v.Directory == nil {
		return VerifyResult{IsValid: true, Reputation: 0.5}, nil
	}
	exists, _, err := v.Directory.Lookup(ctx, id)
	if err != nil {
		return VerifyResult{}, err
	}
	if !exists {
		return VerifyResult{Reason: "agent unknown to directory"}, nil
	}
	return VerifyResult{IsValid: true, Reputation: 1.0}, nil
}

func isAgentIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	}
	return false
}
