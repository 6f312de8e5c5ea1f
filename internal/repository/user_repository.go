package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user and assigns its generated ID.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, email, hashed_password, role, active, organization_id, department_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Username, user.Email, user.HashedPassword, user.Role, user.Active,
		user.OrganizationID, user.DepartmentID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted user id: %v", err)
	}
	user.ID = id

	logrus.WithField("userID", user.ID).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = ?", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logrus.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Warn("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves a user by their password reset token.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE reset_token = ?", token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by reset token: %v", err)
	}
	return &user, nil
}

// userUpdatableColumns are the columns UpdateUser may set. Field names
// arrive from client JSON, so anything outside this set is rejected
// before the query is built.
var userUpdatableColumns = map[string]bool{
	"username":        true,
	"email":           true,
	"role":            true,
	"active":          true,
	"organization_id": true,
	"department_id":   true,
	"hashed_password": true,
	"reset_token":     true,
	"reset_token_exp": true,
}

// UpdateUser applies a partial update to a user's record. Unknown
// field names are a validation error.
func (r *UserRepository) UpdateUser(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	for col := range fields {
		if !userUpdatableColumns[col] {
			return fmt.Errorf("unknown user field %q", col)
		}
	}
	fields["updated_at"] = time.Now().UTC()

	query := "UPDATE users SET "
	args := make([]interface{}, 0, len(fields)+1)
	first := true
	for col, val := range fields {
		if !first {
			query += ", "
		}
		query += col + " = ?"
		args = append(args, val)
		first = false
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetActive flips the active flag; deactivation is the soft form of removal.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET active = ?, updated_at = ? WHERE id = ?",
		active, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set user active flag: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastActive records that the user was just seen.
func (r *UserRepository) TouchLastActive(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_active_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch last active: %v", err)
	}
	return nil
}

// DeleteUser permanently removes a user.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id,
			"error":  err,
		}).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	logrus.WithField("userID", id).Info("User deleted successfully")
	return nil
}

// GetAllUsers returns every user ordered by username.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY username")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	return users, nil
}

// GetActiveUsers returns every active user. System notification
// fan-out targets exactly this set.
func (r *UserRepository) GetActiveUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users, "SELECT * FROM users WHERE active = 1 ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active users: %v", err)
	}
	return users, nil
}

// GetActiveUsersByRoles returns active users holding any of the given roles.
func (r *UserRepository) GetActiveUsersByRoles(ctx context.Context, roles ...string) ([]models.User, error) {
	query, args, err := sqlx.In("SELECT * FROM users WHERE active = 1 AND role IN (?) ORDER BY id", roles)
	if err != nil {
		return nil, fmt.Errorf("failed to build role query: %v", err)
	}
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to fetch users by role: %v", err)
	}
	return users, nil
}
