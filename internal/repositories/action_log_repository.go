package repositories

import (
	"context"

	"lab-reception/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultActionLogLimit = 100

type ActionLogRepository struct {
	DB *pgxpool.Pool
}

func NewActionLogRepository(db *pgxpool.Pool) *ActionLogRepository {
	return &ActionLogRepository{DB: db}
}

// CreateActionLog records a console action
func (r *ActionLogRepository) CreateActionLog(ctx context.Context, log *models.ActionLog) error {
	query := `
		INSERT INTO action_logs (
			request_id, action_type, target_type, target_id,
			description, outcome, ip_address, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	return r.DB.QueryRow(ctx, query,
		log.RequestID, log.ActionType, log.TargetType, log.TargetID,
		log.Description, log.Outcome, log.IPAddress,
	).Scan(&log.ID, &log.CreatedAt)
}

// ListActionLogs returns the newest entries first, optionally for one target type
func (r *ActionLogRepository) ListActionLogs(ctx context.Context, targetType string, limit int) ([]*models.ActionLog, error) {
	if limit <= 0 {
		limit = defaultActionLogLimit
	}

	query := `
		SELECT id, request_id, action_type, target_type, target_id,
		       description, outcome, ip_address, created_at
		FROM action_logs
		WHERE ($1 = '' OR target_type = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, query, targetType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []*models.ActionLog{}
	for rows.Next() {
		l := &models.ActionLog{}
		if err := rows.Scan(
			&l.ID, &l.RequestID, &l.ActionType, &l.TargetType, &l.TargetID,
			&l.Description, &l.Outcome, &l.IPAddress, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
