package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietacct/ledgerkit/internal/domain"
	"github.com/vietacct/ledgerkit/internal/usecase"
)

// AuditRepository implements append-only audit log persistence. Rows are
// never updated or deleted.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// execer is the Exec shape shared by pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Create inserts an audit log entry outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return insertAuditLog(ctx, r.pool, log)
}

// CreateTx inserts an audit log entry inside the transaction, so the log
// commits or rolls back with the mutation it describes.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return insertAuditLog(ctx, tx.(*Tx).PgxTx(), log)
}

func insertAuditLog(ctx context.Context, db execer, log *domain.AuditLog) error {
	oldValue, err := marshalJSON(log.OldValue)
	if err != nil {
		return err
	}
	newValue, err := marshalJSON(log.NewValue)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, `
		INSERT INTO audit_logs (
			id, company_id, user_id, user_ip, user_agent,
			entity_type, entity_id, action, old_value, new_value, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		log.ID,
		log.CompanyID,
		log.UserID,
		log.UserIP,
		log.UserAgent,
		log.EntityType,
		log.EntityID,
		string(log.Action),
		oldValue,
		newValue,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	var (
		conditions []string
		args       []any
	)
	addArg := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.CompanyID != "" {
		addArg("company_id = $%d", filter.CompanyID)
	}
	if filter.UserID != "" {
		addArg("user_id = $%d", filter.UserID)
	}
	if filter.EntityType != "" {
		addArg("entity_type = $%d", filter.EntityType)
	}
	if filter.EntityID != "" {
		addArg("entity_id = $%d", filter.EntityID)
	}
	if filter.Action != "" {
		addArg("action = $%d", string(filter.Action))
	}
	if filter.StartDate != nil {
		addArg("created_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		addArg("created_at <= $%d", *filter.EndDate)
	}

	query := `
		SELECT id, company_id, user_id, user_ip, user_agent,
		       entity_type, entity_id, action, old_value, new_value, created_at
		FROM audit_logs
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log                domain.AuditLog
			oldValue, newValue []byte
			action             string
		)

		err := rows.Scan(
			&log.ID, &log.CompanyID, &log.UserID, &log.UserIP, &log.UserAgent,
			&log.EntityType, &log.EntityID, &action, &oldValue, &newValue,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		log.Action = domain.AuditAction(action)
		if oldValue != nil {
			_ = json.Unmarshal(oldValue, &log.OldValue)
		}
		if newValue != nil {
			_ = json.Unmarshal(newValue, &log.NewValue)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalJSON(v domain.JSON) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
