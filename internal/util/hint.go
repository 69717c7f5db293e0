package util

import "strings"

// AgentHint сокращает идентификатор агента для логов и ответов:
// "trading-bot-01" -> "tra…-01". Полный id в логи не пишется.
func AgentHint(agentID string) string {
	id := strings.TrimSpace(agentID)
	if len(id) <= 6 {
		return id
	}
	return id[:3] + "…" + id[len(id)-3:]
}
