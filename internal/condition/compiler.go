package condition

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
)

// Известные программы Solana, на которые опираются клаузы действий.
const (
	JupiterProgram   = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
	RaydiumProgram   = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
	WhirlpoolProgram = "whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc"
	StakeProgram     = "Stake11111111111111111111111111111111111111"
	TokenProgram     = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// DefaultMaxInstructions — потолок числа инструкций в транзакции.
// Грубая защита от бандлинга: платформа не интроспектирует произвольные
// вызовы программ, поэтому сложность транзакции ограничивается сверху.
const DefaultMaxInstructions = 10

// Context — адреса счетов пользователя, подставляемые в клаузы переводов
type Context struct {
	TradingAddress string
	StorageAddress string
}

// Compiler — детерминированный транслятор Scope в строку условия.
// Чистая функция: ни сети, ни случайности, время передаётся извне.
type Compiler struct {
	MaxInstructions int
	DEXPrograms     []string
	StakeProgram    string
	TokenProgram    string
}

// NewCompiler возвращает компилятор с фиксированными allow-list'ами программ
func NewCompiler() *Compiler {
	return &Compiler{
		MaxInstructions: DefaultMaxInstructions,
		DEXPrograms:     []string{JupiterProgram, RaydiumProgram, WhirlpoolProgram},
		StakeProgram:    StakeProgram,
		TokenProgram:    TokenProgram,
	}
}

// Compile порождает условие для Scope: потолок инструкций, дизъюнкция
// разрешённых действий, allow-list'ы программ и минтов, абсолютный срок.
// Клаузы соединяются через && в фиксированном порядке; одинаковый вход
// (и одинаковый requestedAt) даёт байт-в-байт одинаковый результат.
func (c *Compiler) Compile(scope models.Scope, ctx Context, requestedAt time.Time) string {
	clauses := []expr{
		cmp{lit("instructions.count()"), "<=", lit(strconv.Itoa(c.MaxInstructions))},
		c.permissionGroup(scope, ctx),
	}

	if programs := dedupe(scope.Programs); len(programs) > 0 {
		clauses = append(clauses, quant{
			recv: "instructions", fn: "all", v: "i",
			pred: member{lit("i.program_id"), programs},
		})
	}
	if tokens := dedupe(scope.Tokens); len(tokens) > 0 {
		clauses = append(clauses, quant{
			recv: "transfers", fn: "all", v: "t",
			pred: member{lit("t.mint"), tokens},
		})
	}

	expiry := requestedAt.Unix() + scope.DurationSeconds
	clauses = append(clauses, cmp{lit("now()"), "<", lit(strconv.FormatInt(expiry, 10))})

	return render(and(clauses...))
}

// permissionGroup строит скобочную дизъюнкцию клауз действий.
// Пустой набор разрешений компилируется в (false): делегирование,
// которое не может удовлетворить ни одну форму транзакции.
func (c *Compiler) permissionGroup(scope models.Scope, ctx Context) expr {
	var disjuncts []expr
	seen := map[models.Permission]bool{}
	for _, p := range scope.Permissions {
		if seen[p] {
			continue
		}
		seen[p] = true
		disjuncts = append(disjuncts, c.actionClause(p, scope.Limits, ctx))
	}
	if len(disjuncts) == 0 {
		return group{lit("false")}
	}
	return group{or(disjuncts...)}
}

func (c *Compiler) actionClause(p models.Permission, limits models.Limits, ctx Context) expr {
	switch p.Action {
	case models.ActionTransfer:
		pred := []expr{cmp{lit("t.amount"), "<=", lit(strconv.FormatUint(limits.PerTransaction, 10))}}
		if addr := targetAddress(p.TargetAccount, ctx); addr != "" {
			pred = append(pred, cmp{lit("t.to"), "==", str(addr)})
		}
		return quant{recv: "transfers", fn: "any", v: "t", pred: and(pred...)}
	case models.ActionSwap:
		return quant{recv: "instructions", fn: "any", v: "i",
			pred: member{lit("i.program_id"), c.DEXPrograms}}
	case models.ActionStake:
		return quant{recv: "instructions", fn: "any", v: "i",
			pred: cmp{lit("i.program_id"), "==", str(c.StakeProgram)}}
	case models.ActionMintNFT:
		return c.tokenOpClause("mint_to")
	case models.ActionBurn:
		return c.tokenOpClause("burn")
	case models.ActionDelegate:
		return c.tokenOpClause("approve")
	}
	// неизвестное действие отсекает Scope.Validate; здесь fail-closed
	return lit("false")
}

func (c *Compiler) tokenOpClause(opcode string) expr {
	return quant{recv: "instructions", fn: "any", v: "i",
		pred: and(
			cmp{lit("i.program_id"), "==", str(c.TokenProgram)},
			cmp{lit("i.opcode"), "==", str(opcode)},
		)}
}

func targetAddress(t models.TargetAccount, ctx Context) string {
	switch t {
	case models.AccountTrading:
		return ctx.TradingAddress
	case models.AccountStorage:
		return ctx.StorageAddress
	}
	return ""
}

// ConsensusRule ограничивает политику единственным одобряющим — агентом
func ConsensusRule(agentUserID string) string {
	return fmt.Sprintf("approvers.any(user, user.id == '%s')", escape(agentUserID))
}

// dedupe удаляет дубликаты, сохраняя порядок первого вхождения
func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
