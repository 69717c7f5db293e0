package repo

const (
	tableDelegations = "delegations"
	tableRequests    = "delegation_requests"
)

const (
	colID               = "id"
	colPolicyID         = "policy_id"
	colCredentialID     = "credential_id"
	colAgentID          = "agent_id"
	colNamespace        = "namespace"
	colSigningPublicKey = "signing_public_key"
	colPermissions      = "permissions"
	colLimitPerTx       = "limit_per_tx"
	colLimitDaily       = "limit_daily"
	colLimitWeekly      = "limit_weekly"
	colLimitMonthly     = "limit_monthly"
	colExpiresAt        = "expires_at"
	colCreatedAt        = "created_at"
	colQuotaDaily       = "quota_daily"
	colQuotaWeekly      = "quota_weekly"
	colQuotaMonthly     = "quota_monthly"
	colDailyStart       = "quota_daily_start"
	colWeeklyStart      = "quota_weekly_start"
	colMonthlyStart     = "quota_monthly_start"

	colScope       = "scope"
	colStatus      = "status"
	colRequestedAt = "requested_at"
	colDecidedAt   = "decided_at"
)
