package condition

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

func scopeWith(perms []models.Permission) models.Scope {
	return models.Scope{
		Permissions: perms,
		Limits: models.Limits{
			PerTransaction: 1_000_000,
			Daily:          5_000_000,
			Weekly:         20_000_000,
		},
		DurationSeconds: 3600,
	}
}

func TestCompileEmptyPermissionsFailClosed(t *testing.T) {
	c := NewCompiler()
	out := c.Compile(scopeWith(nil), Context{}, time.Unix(1000, 0))
	assert.Contains(t, out, "(false)")
}

func TestCompileAbsoluteExpiry(t *testing.T) {
	c := NewCompiler()
	out := c.Compile(scopeWith([]models.Permission{{Action: models.ActionTransfer}}), Context{}, time.Unix(1000, 0))

	// срок ровно один и абсолютный: requestedAt + duration
	assert.Equal(t, 1, strings.Count(out, "now() <"))
	assert.Contains(t, out, "now() < 4600")
	assert.NotContains(t, out, "now() < 3600")
}

func TestCompileDeterministic(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{
		{Action: models.ActionSwap},
		{Action: models.ActionTransfer, TargetAccount: models.AccountTrading},
	})
	scope.Programs = []string{"ProgB", "ProgA", "ProgB"}
	scope.Tokens = []string{"MintX", "MintX", "MintY"}
	ctx := Context{TradingAddress: "TRADE_ADDR", StorageAddress: "COLD_ADDR"}
	at := time.Unix(1000, 0)

	first := c.Compile(scope, ctx, at)
	second := c.Compile(scope, ctx, at)
	assert.Equal(t, first, second)
}

func TestCompileDedupeFirstSeenOrder(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{{Action: models.ActionTransfer}})
	scope.Programs = []string{"ProgB", "ProgA", "ProgB", "ProgA"}
	scope.Tokens = []string{"MintY", "MintX", "MintY"}

	out := c.Compile(scope, Context{}, time.Unix(1000, 0))
	assert.Contains(t, out, "instructions.all(i, i.program_id in ['ProgB', 'ProgA'])")
	assert.Contains(t, out, "transfers.all(t, t.mint in ['MintY', 'MintX'])")
}

func TestCompileTransferScenario(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{{Action: models.ActionTransfer}})
	scope.Tokens = []string{"USDC_MINT"}

	out := c.Compile(scope, Context{}, time.Unix(1000, 0))
	assert.Contains(t, out, "transfers.any(t, t.amount <= 1000000)")
	assert.Contains(t, out, "transfers.all(t, t.mint in ['USDC_MINT'])")
	assert.Contains(t, out, "now() < 4600")
	// без ограничения программ клаузы allow-list нет
	assert.NotContains(t, out, "instructions.all")
}

func TestCompileInstructionCeilingAlwaysFirst(t *testing.T) {
	c := NewCompiler()
	out := c.Compile(scopeWith(nil), Context{}, time.Unix(1000, 0))
	require.True(t, strings.HasPrefix(out, "instructions.count() <= 10 && "))

	c.MaxInstructions = 20
	out = c.Compile(scopeWith(nil), Context{}, time.Unix(1000, 0))
	assert.True(t, strings.HasPrefix(out, "instructions.count() <= 20 && "))
}

func TestCompileTargetAccountAddress(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{{Action: models.ActionTransfer, TargetAccount: models.AccountStorage}})
	ctx := Context{TradingAddress: "TRADE_ADDR", StorageAddress: "COLD_ADDR"}

	out := c.Compile(scope, ctx, time.Unix(1000, 0))
	assert.Contains(t, out, "transfers.any(t, t.amount <= 1000000 && t.to == 'COLD_ADDR')")
}

func TestCompilePermissionDisjunction(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{
		{Action: models.ActionTransfer},
		{Action: models.ActionStake},
	})

	out := c.Compile(scope, Context{}, time.Unix(1000, 0))
	// дизъюнкты в скобках, объединены через ||
	assert.Contains(t, out, "(transfers.any(t, t.amount <= 1000000) || instructions.any(i, i.program_id == 'Stake11111111111111111111111111111111111111'))")
}

func TestCompileDuplicatePermissionsCollapse(t *testing.T) {
	c := NewCompiler()
	scope := scopeWith([]models.Permission{
		{Action: models.ActionSwap},
		{Action: models.ActionSwap},
	})

	out := c.Compile(scope, Context{}, time.Unix(1000, 0))
	assert.Equal(t, 0, strings.Count(out, "||"))
	assert.Equal(t, 1, strings.Count(out, "instructions.any"))
}

func TestConsensusRule(t *testing.T) {
	assert.Equal(t,
		"approvers.any(user, user.id == 'agent-user-1')",
		ConsensusRule("agent-user-1"))
	// одинарная кавычка в идентификаторе экранируется
	assert.Equal(t,
		`approvers.any(user, user.id == 'a\'b')`,
		ConsensusRule("a'b"))
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\'b`, escape("a'b"))
	assert.Equal(t, `a\\b`, escape(`a\b`))
}
