package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
)

// PermissionRepository handles stored per-module grants for BASIC users.
type PermissionRepository struct {
	db *sqlx.DB
}

// NewPermissionRepository creates a new instance of PermissionRepository.
func NewPermissionRepository(db *sqlx.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetByUser returns the stored permission rows for a user. No rows is
// not an error; the service merges role defaults over the gaps.
func (r *PermissionRepository) GetByUser(ctx context.Context, userID int64) ([]models.ModulePermission, error) {
	var perms []models.ModulePermission
	err := r.db.SelectContext(ctx, &perms,
		"SELECT * FROM permissions WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch permissions: %v", err)
	}
	return perms, nil
}

// ReplaceForUser overwrites the user's stored grants wholesale in one
// transaction: delete all rows, insert the working set. Concurrent
// saves are last-write-wins.
func (r *PermissionRepository) ReplaceForUser(ctx context.Context, userID int64, perms []models.ModulePermission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM permissions WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to clear permissions: %v", err)
	}

	stmt, err := tx.PreparexContext(ctx,
		"INSERT INTO permissions (user_id, module, can_view) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare permission insert: %v", err)
	}
	defer stmt.Close()

	for _, p := range perms {
		if _, err := stmt.ExecContext(ctx, userID, p.Module, p.CanView); err != nil {
			return fmt.Errorf("failed to insert permission %s: %v", p.Module, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit permissions: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": userID,
		"rows":   len(perms),
	}).Info("Permissions replaced")
	return nil
}

// DeleteForUser removes all stored grants for a user.
func (r *PermissionRepository) DeleteForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM permissions WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("failed to delete permissions: %v", err)
	}
	return nil
}
