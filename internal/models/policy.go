package models

import "time"

// PolicyEffect — эффект политики на платформе кастодиана
type PolicyEffect string

const (
	EffectAllow PolicyEffect = "EFFECT_ALLOW"
	EffectDeny  PolicyEffect = "EFFECT_DENY"
)

// Policy — проекция политики платформы кастодиана
type Policy struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Effect        PolicyEffect `json:"effect"`
	ConsensusRule string       `json:"consensus_rule"`
	Condition     string       `json:"condition"`
	Namespace     string       `json:"namespace"`
	CreatedAt     time.Time    `json:"created_at"`
}
