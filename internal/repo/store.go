package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vbncursed/vkr/delegation-service/internal/models"
	"github.com/vbncursed/vkr/delegation-service/internal/service"
)

// Store — адаптер Postgres, реализующий service.Registry и service.RequestLog
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store { return &Store{pool: pool} }

func NewPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, url)
}

const delegationCols = colID + `, ` + colPolicyID + `, ` + colCredentialID + `, ` + colAgentID + `, ` +
	colNamespace + `, ` + colSigningPublicKey + `, ` + colPermissions + `, ` +
	colLimitPerTx + `, ` + colLimitDaily + `, ` + colLimitWeekly + `, ` + colLimitMonthly + `, ` +
	colExpiresAt + `, ` + colCreatedAt + `, ` +
	colQuotaDaily + `, ` + colQuotaWeekly + `, ` + colQuotaMonthly + `, ` +
	colDailyStart + `, ` + colWeeklyStart + `, ` + colMonthlyStart

// Insert сохраняет новое делегирование
func (s *Store) Insert(ctx context.Context, d models.Delegation) error {
	perms, err := json.Marshal(d.Permissions)
	if err != nil {
		return err
	}
	cmd := `INSERT INTO ` + tableDelegations + ` (` + delegationCols + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`
	_, err = s.pool.Exec(ctx, cmd,
		d.ID, d.PolicyID, d.CredentialID, d.AgentID,
		d.Namespace, d.SigningPublicKey, perms,
		int64(d.Limits.PerTransaction), int64(d.Limits.Daily), int64(d.Limits.Weekly), int64(d.Limits.Monthly),
		d.ExpiresAt, d.CreatedAt,
		int64(d.QuotaUsed.Daily), int64(d.QuotaUsed.Weekly), int64(d.QuotaUsed.Monthly),
		d.QuotaUsed.DailyStart, d.QuotaUsed.WeeklyStart, d.QuotaUsed.MonthlyStart,
	)
	return err
}

// Get — делегирование по id или service.ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (models.Delegation, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+delegationCols+` FROM `+tableDelegations+` WHERE `+colID+`=$1`, id)
	d, err := scanDelegation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Delegation{}, service.ErrNotFound
	}
	return d, err
}

// Delete удаляет запись; false, если записи не было
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM `+tableDelegations+` WHERE `+colID+`=$1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// List — делегирования пространства имён; пустое namespace — все
func (s *Store) List(ctx context.Context, namespace string) ([]models.Delegation, error) {
	q := `SELECT ` + delegationCols + ` FROM ` + tableDelegations
	args := []any{}
	if namespace != "" {
		q += ` WHERE ` + colNamespace + `=$1`
		args = append(args, namespace)
	}
	q += ` ORDER BY ` + colCreatedAt
	return s.queryDelegations(ctx, q, args...)
}

// ListExpired — делегирования с истёкшим сроком на момент now
func (s *Store) ListExpired(ctx context.Context, now time.Time) ([]models.Delegation, error) {
	q := `SELECT ` + delegationCols + ` FROM ` + tableDelegations + ` WHERE ` + colExpiresAt + `<=$1`
	return s.queryDelegations(ctx, q, now)
}

// UpdateQuota перезаписывает счётчики квот делегирования
func (s *Store) UpdateQuota(ctx context.Context, id string, u models.QuotaUsage) error {
	cmd := `UPDATE ` + tableDelegations + ` SET ` +
		colQuotaDaily + `=$1, ` + colQuotaWeekly + `=$2, ` + colQuotaMonthly + `=$3, ` +
		colDailyStart + `=$4, ` + colWeeklyStart + `=$5, ` + colMonthlyStart + `=$6 WHERE ` + colID + `=$7`
	tag, err := s.pool.Exec(ctx, cmd,
		int64(u.Daily), int64(u.Weekly), int64(u.Monthly),
		u.DailyStart, u.WeeklyStart, u.MonthlyStart, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// SaveRequest пишет решение по запросу в журнал
func (s *Store) SaveRequest(ctx context.Context, req models.DelegationRequest) error {
	scope, err := json.Marshal(req.Scope)
	if err != nil {
		return err
	}
	cmd := `INSERT INTO ` + tableRequests + ` (` +
		colID + `, ` + colAgentID + `, ` + colScope + `, ` + colStatus + `, ` +
		colRequestedAt + `, ` + colDecidedAt + `, ` + colExpiresAt + `)
            VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err = s.pool.Exec(ctx, cmd,
		req.ID, req.AgentID, scope, string(req.Status),
		req.RequestedAt, req.DecidedAt, req.ExpiresAt)
	return err
}

func (s *Store) queryDelegations(ctx context.Context, q string, args ...any) ([]models.Delegation, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Delegation
	for rows.Next() {
		d, err := scanDelegation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDelegation(row pgx.Row) (models.Delegation, error) {
	var (
		d        models.Delegation
		perms    []byte
		perTx    int64
		daily    int64
		weekly   int64
		monthly  int64
		qDaily   int64
		qWeekly  int64
		qMonthly int64
	)
	err := row.Scan(
		&d.ID, &d.PolicyID, &d.CredentialID, &d.AgentID,
		&d.Namespace, &d.SigningPublicKey, &perms,
		&perTx, &daily, &weekly, &monthly,
		&d.ExpiresAt, &d.CreatedAt,
		&qDaily, &qWeekly, &qMonthly,
		&d.QuotaUsed.DailyStart, &d.QuotaUsed.WeeklyStart, &d.QuotaUsed.MonthlyStart,
	)
	if err != nil {
		return models.Delegation{}, err
	}
	if err := json.Unmarshal(perms, &d.Permissions); err != nil {
		return models.Delegation{}, err
	}
	d.Limits = models.Limits{
		PerTransaction: uint64(perTx),
		Daily:          uint64(daily),
		Weekly:         uint64(weekly),
		Monthly:        uint64(monthly),
	}
	d.QuotaUsed.Daily = uint64(qDaily)
	d.QuotaUsed.Weekly = uint64(qWeekly)
	d.QuotaUsed.Monthly = uint64(qMonthly)
	return d, nil
}
