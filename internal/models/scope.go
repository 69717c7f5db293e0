package models

import "errors"

// Action — разрешённое действие агента
type Action string

const (
	ActionTransfer Action = "TRANSFER"
	ActionSwap     Action = "SWAP"
	ActionStake    Action = "STAKE"
	ActionMintNFT  Action = "MINT_NFT"
	ActionBurn     Action = "BURN"
	ActionDelegate Action = "DELEGATE"
)

// Valid сообщает, известно ли действие
func (a Action) Valid() bool {
	switch a {
	case ActionTransfer, ActionSwap, ActionStake, ActionMintNFT, ActionBurn, ActionDelegate:
		return true
	}
	return false
}

// TargetAccount — целевой счёт для действия
type TargetAccount string

const (
	AccountTrading TargetAccount = "TRADING"
	AccountStorage TargetAccount = "LONG_TERM_STORAGE"
	AccountAny     TargetAccount = "ANY"
)

// Permission — действие плюс необязательный целевой счёт.
// Пустой TargetAccount означает любой доступный агенту счёт.
type Permission struct {
	Action        Action        `json:"action"`
	TargetAccount TargetAccount `json:"target_account,omitempty"`
}

// Limits — лимиты в минимальных неделимых единицах актива.
// Monthly == 0 означает, что месячный лимит не задан.
type Limits struct {
	PerTransaction uint64 `json:"per_transaction"`
	Daily          uint64 `json:"daily"`
	Weekly         uint64 `json:"weekly"`
	Monthly        uint64 `json:"monthly,omitempty"`
}

// Scope — неизменяемое описание полномочий делегирования.
// Пустые Programs/Tokens означают отсутствие ограничения.
type Scope struct {
	Permissions     []Permission `json:"permissions"`
	Programs        []string     `json:"programs"`
	Tokens          []string     `json:"tokens"`
	Limits          Limits       `json:"limits"`
	DurationSeconds int64        `json:"duration_seconds"`
}

var (
	ErrDurationNotPositive = errors.New("duration must be positive")
	ErrUnknownAction       = errors.New("unknown action")
)

// Validate проверяет структурные инварианты Scope.
// Соотношение per_transaction <= daily <= weekly намеренно не проверяется:
// допустим сценарий, когда дневной лимит меньше разового.
func (s Scope) Validate() error {
	if s.DurationSeconds <= 0 {
		return ErrDurationNotPositive
	}
	for _, p := range s.Permissions {
		if !p.Action.Valid() {
			return ErrUnknownAction
		}
	}
	return nil
}
