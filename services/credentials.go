package services

import (
	"context"
	"errors"
	"strings"

	"github.com/cppla/inkblog/models"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

// MinPasswordLength is the shortest password accepted at registration or change.
const MinPasswordLength = 6

var errInvalidCredentials = utils.Unauthorized("Invalid credentials.")

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string `json:"token"`
	ID    uint   `json:"id"`
	Name  string `json:"name"`
}

// ProfileInput is the payload of a profile edit.
type ProfileInput struct {
	Name               string
	Email              string
	CurrentPassword    string
	NewPassword        string
	ConfirmNewPassword string
}

// CredentialService registers accounts, logs them in and manages their passwords.
type CredentialService struct {
	accounts store.AccountStore
	tokens   *utils.TokenManager
}

// NewCredentialService builds a CredentialService.
func NewCredentialService(accounts store.AccountStore, tokens *utils.TokenManager) *CredentialService {
	return &CredentialService{accounts: accounts, tokens: tokens}
}

// Register creates an account with a hashed password.
func (s *CredentialService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	name := utils.SanitizeText(in.Name)
	email := models.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return models.User{}, utils.Validation("Fill in all fields.")
	}

	if _, err := s.accounts.GetUserByEmail(ctx, email); err == nil {
		return models.User{}, utils.Conflict("Email already exists.")
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, utils.Internal(err, "User registration failed.")
	}

	if err := checkNewPassword(in.Password, in.ConfirmPassword); err != nil {
		return models.User{}, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return models.User{}, utils.Internal(err, "User registration failed.")
	}

	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.accounts.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.User{}, utils.Conflict("Email already exists.")
		}
		return models.User{}, utils.Internal(err, "User registration failed.")
	}
	return user, nil
}

// Login checks email and password and issues a session token.
// Unknown emails and wrong passwords produce the same error.
func (s *CredentialService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, utils.Validation("Fill in all fields.")
	}

	user, err := s.accounts.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, errInvalidCredentials
		}
		return LoginResult{}, utils.Internal(err, "Login failed. Please check your credentials.")
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, errInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID, user.Name)
	if err != nil {
		return LoginResult{}, utils.Internal(err, "Failed to generate token.")
	}
	return LoginResult{Token: token, ID: user.ID, Name: user.Name}, nil
}

// ChangePassword replaces the stored hash after verifying the current password.
func (s *CredentialService) ChangePassword(ctx context.Context, userID uint, current, next, confirm string) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.applyPasswordChange(&user, current, next, confirm); err != nil {
		return err
	}
	if err := s.accounts.UpdateUser(ctx, &user); err != nil {
		return utils.Internal(err, "Failed to change password.")
	}
	return nil
}

// UpdateProfile edits name and email, and the password when a new one is given.
// The current password is always required.
func (s *CredentialService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (models.User, error) {
	name := utils.SanitizeText(in.Name)
	email := models.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.CurrentPassword == "" {
		return models.User{}, utils.Validation("Fill in all fields.")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if other, err := s.accounts.GetUserByEmail(ctx, email); err == nil && other.ID != user.ID {
		return models.User{}, utils.Conflict("Email already exists.")
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.User{}, utils.Internal(err, "Failed to update profile.")
	}

	if strings.TrimSpace(in.NewPassword) != "" {
		if err := s.applyPasswordChange(&user, in.CurrentPassword, in.NewPassword, in.ConfirmNewPassword); err != nil {
			return models.User{}, err
		}
	} else if !utils.CheckPassword(user.PasswordHash, in.CurrentPassword) {
		return models.User{}, utils.Validation("Invalid current password.")
	}

	user.Name = name
	user.Email = email
	if err := s.accounts.UpdateUser(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return models.User{}, utils.Conflict("Email already exists.")
		}
		return models.User{}, utils.Internal(err, "Failed to update profile.")
	}
	return user, nil
}

func (s *CredentialService) applyPasswordChange(user *models.User, current, next, confirm string) error {
	if !utils.CheckPassword(user.PasswordHash, current) {
		return utils.Validation("Invalid current password.")
	}
	if err := checkNewPassword(next, confirm); err != nil {
		return err
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return utils.Internal(err, "Failed to change password.")
	}
	user.PasswordHash = hash
	return nil
}

func (s *CredentialService) loadUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.accounts.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, utils.NotFound("User not found.")
		}
		return models.User{}, utils.Internal(err, "Failed to load user.")
	}
	return user, nil
}

func checkNewPassword(password, confirm string) error {
	if len(strings.TrimSpace(password)) < MinPasswordLength {
		return utils.Validation("Password should be at least %d characters.", MinPasswordLength)
	}
	if password != confirm {
		return utils.Validation("Passwords do not match.")
	}
	return nil
}
