package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aibek-k/erp-admin/internal/models"
	"github.com/aibek-k/erp-admin/internal/repository"
	"github.com/aibek-k/erp-admin/pkg/email"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo     *repository.UserRepository
	permRepo *repository.PermissionRepository
	mailer   *email.Mailer
}

// NewUserService creates a new instance of UserService. mailer may be
// nil, in which case no provisioning mail is sent.
func NewUserService(repo *repository.UserRepository, permRepo *repository.PermissionRepository, mailer *email.Mailer) *UserService {
	return &UserService{
		repo:     repo,
		permRepo: permRepo,
		mailer:   mailer,
	}
}

// RegisterUser provisions a new account: validates the input, hashes
// the password, stores the user active, and seeds BASIC users with
// their role-default permission rows.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	if user.Email == "" || user.Username == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	if existing, _ := s.repo.GetUserByEmail(ctx, user.Email); existing != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashedPwd)

	if user.Role == "" {
		user.Role = models.RoleBasic
	}
	if !models.ValidRole(user.Role) {
		return nil, fmt.Errorf("unknown role %q", user.Role)
	}
	user.Active = true

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	// BASIC accounts start with the role-default module grants stored.
	if createdUser.Role == models.RoleBasic {
		if err := s.permRepo.ReplaceForUser(ctx, createdUser.ID, DefaultPermissions(models.RoleBasic)); err != nil {
			logrus.WithError(err).Error("Failed to provision default permissions")
			return nil, fmt.Errorf("failed to provision permissions: %v", err)
		}
	}

	if s.mailer != nil {
		body := fmt.Sprintf("Hello %s,\n\nYour account has been created. You can now sign in to the admin dashboard.", createdUser.Username)
		if err := s.mailer.Send(createdUser.Email, "Welcome", body); err != nil {
			logrus.WithError(err).Warn("Failed to send welcome email")
		}
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID,
		"role":   createdUser.Role,
	}).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the
// user if credentials are valid. Deactivated accounts are rejected.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	logrus.WithField("email", userEmail).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		logrus.WithField("email", userEmail).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.Active {
		logrus.WithField("email", userEmail).Warn("Login attempt on deactivated account")
		return nil, fmt.Errorf("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	logrus.WithField("userID", user.ID).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// GetAllUsers returns every account.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// UpdateUser applies a partial update to a user's profile fields.
func (s *UserService) UpdateUser(ctx context.Context, id int64, fields map[string]interface{}) (*models.User, error) {
	logrus.WithField("userID", id).Info("Updating user")

	// Credentials and role changes go through dedicated paths.
	delete(fields, "hashed_password")
	delete(fields, "reset_token")
	delete(fields, "reset_token_exp")
	delete(fields, "id")

	if raw, ok := fields["role"]; ok {
		role, isString := raw.(string)
		if !isString || !models.ValidRole(role) {
			return nil, fmt.Errorf("invalid role value %v", raw)
		}
	}

	if err := s.repo.UpdateUser(ctx, id, fields); err != nil {
		logrus.WithError(err).Error("Failed to update user in service")
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

// SetUserActive activates or deactivates an account. Deactivated users
// stop receiving system notification fan-out and cannot log in.
func (s *UserService) SetUserActive(ctx context.Context, id int64, active bool) error {
	logrus.WithFields(logrus.Fields{
		"userID": id,
		"active": active,
	}).Info("Changing user active flag")
	return s.repo.SetActive(ctx, id, active)
}

// DeleteUser permanently removes a user. Notifications and permission
// rows cascade with the account.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	logrus.WithField("userID", id).Info("Deleting user")
	return s.repo.DeleteUser(ctx, id)
}

// GetActiveUsersByRoles returns active users holding any of the given
// roles. The scan jobs use it to pick reminder recipients.
func (s *UserService) GetActiveUsersByRoles(ctx context.Context, roles ...string) ([]models.User, error) {
	return s.repo.GetActiveUsersByRoles(ctx, roles...)
}

// TouchLastActive records activity for the user; failures are ignored
// by callers since this is best-effort bookkeeping.
func (s *UserService) TouchLastActive(ctx context.Context, id int64) error {
	return s.repo.TouchLastActive(ctx, id)
}

// ChangePassword rehashes and stores a new password.
func (s *UserService) ChangePassword(ctx context.Context, id int64, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}
	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}
	return s.repo.UpdateUser(ctx, id, map[string]interface{}{
		"hashed_password": string(hashedPwd),
	})
}

// RequestPasswordReset issues a one-hour reset token for the account
// and mails it to the user.
func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("no account found with this email")
	}

	resetToken := uuid.NewString()
	expiration := time.Now().UTC().Add(1 * time.Hour)

	err = s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"reset_token":     resetToken,
		"reset_token_exp": expiration,
	})
	if err != nil {
		return fmt.Errorf("failed to save reset token: %v", err)
	}

	if s.mailer != nil {
		body := fmt.Sprintf("Hello %s,\n\nUse the token below to reset your password. It expires in one hour.\n\n%s", user.Username, resetToken)
		if err := s.mailer.Send(user.Email, "Password Reset", body); err != nil {
			logrus.WithError(err).Warn("Failed to send password reset email")
		}
	}

	logrus.WithField("userID", user.ID).Info("Password reset token issued")
	return nil
}

// ResetPassword validates the token, stores the new password, and
// clears the token so it cannot be replayed.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("reset token is required")
	}
	if newPassword == "" {
		return fmt.Errorf("password is required")
	}

	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("invalid or expired reset token")
	}
	if !user.ResetTokenExp.Valid || time.Now().UTC().After(user.ResetTokenExp.Time) {
		return fmt.Errorf("invalid or expired reset token")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	err = s.repo.UpdateUser(ctx, user.ID, map[string]interface{}{
		"hashed_password": string(hashedPwd),
		"reset_token":     nil,
		"reset_token_exp": nil,
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %v", err)
	}

	logrus.WithField("userID", user.ID).Info("Password reset successfully")
	return nil
}
