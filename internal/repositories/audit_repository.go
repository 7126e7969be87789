package repositories

import (
	"context"
	"database/sql"
	"strings"

	intdb "github.com/UpwanSingh/FleetControl-sub002/internal/db"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain"
	"github.com/UpwanSingh/FleetControl-sub002/internal/domain/models"
)

// AuditColumns lists the selected audit columns in scan order.
var AuditColumns = []string{"id", "owner_id", "entity_type", "entity_id", "action", "performed_by", "reason", "original_value", "new_value", "created_at"}

// AuditRepository is append-only: there is no update or delete.
type AuditRepository struct {
	DB intdb.DBTX
}

// Insert validates the closed enums and the mandatory fields before writing.
func (r AuditRepository) Insert(ctx context.Context, e models.AuditLogEntry) (int64, error) {
	if !e.EntityType.Valid() {
		return 0, domain.ValidationError{Field: "entity_type", Msg: "unknown entity type " + string(e.EntityType)}
	}
	if !e.Action.Valid() {
		return 0, domain.ValidationError{Field: "action", Msg: "unknown audit action " + string(e.Action)}
	}
	if strings.TrimSpace(e.Reason) == "" {
		return 0, domain.ValidationError{Field: "reason", Msg: "audit reason is required"}
	}
	if strings.TrimSpace(e.PerformedBy) == "" {
		return 0, domain.ValidationError{Field: "performed_by", Msg: "audit actor is required"}
	}
	if e.CreatedAt.IsZero() {
		return 0, domain.ValidationError{Field: "created_at", Msg: "audit timestamp is required"}
	}

	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO audit_logs (owner_id, entity_type, entity_id, action, performed_by, reason, original_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.OwnerID, string(e.EntityType), e.EntityID, string(e.Action), e.PerformedBy, strings.TrimSpace(e.Reason),
		intdb.NullIfEmpty(e.OriginalValue), intdb.NullIfEmpty(e.NewValue), e.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// AuditFilter narrows the audit listing; zero values mean "any".
type AuditFilter struct {
	EntityType domain.EntityType
	EntityID   int64
	Action     domain.AuditAction
	Page       domain.Pagination
}

// List returns audit rows newest first.
func (r AuditRepository) List(ctx context.Context, ownerID int64, f AuditFilter) ([]models.AuditLogEntry, error) {
	where := []string{"owner_id=?"}
	args := []any{ownerID}
	if f.EntityType != "" {
		where = append(where, "entity_type=?")
		args = append(args, string(f.EntityType))
	}
	if f.EntityID > 0 {
		where = append(where, "entity_id=?")
		args = append(args, f.EntityID)
	}
	if f.Action != "" {
		where = append(where, "action=?")
		args = append(args, string(f.Action))
	}
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, entity_type, entity_id, action, performed_by, reason,
		       COALESCE(original_value,''), COALESCE(new_value,''), created_at
		FROM audit_logs
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.AuditLogEntry{}
	for rows.Next() {
		var (
			e              models.AuditLogEntry
			entity, action string
			orig, next     sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &entity, &e.EntityID, &action, &e.PerformedBy, &e.Reason, &orig, &next, &e.CreatedAt); err != nil {
			return out, err
		}
		e.EntityType = domain.EntityType(entity)
		e.Action = domain.AuditAction(action)
		e.OriginalValue = orig.String
		e.NewValue = next.String
		out = append(out, e)
	}
	return out, rows.Err()
}
