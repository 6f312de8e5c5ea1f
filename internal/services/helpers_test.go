package services

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
)

// createTestUser inserts an account directly through the repository so
// service tests can reference real user rows.
func createTestUser(t *testing.T, db *sqlx.DB, email, role string, active bool) *models.User {
	t.Helper()

	repo := repository.NewUserRepository(db)
	user, err := repo.CreateUser(context.Background(), &models.User{
		Username:       "user-" + email,
		Email:          email,
		HashedPassword: "not-a-real-hash",
		Role:           role,
		Active:         active,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}
