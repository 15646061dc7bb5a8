package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/inkblog/models"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

// AccountService serves account lookups and avatar changes.
type AccountService struct {
	accounts  store.AccountStore
	uploadDir string
	maxAvatar int64
}

// NewAccountService builds an AccountService storing avatars under uploadDir.
func NewAccountService(accounts store.AccountStore, uploadDir string, maxAvatarBytes int64) *AccountService {
	return &AccountService{accounts: accounts, uploadDir: uploadDir, maxAvatar: maxAvatarBytes}
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, id uint) (models.User, error) {
	user, err := s.accounts.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, utils.NotFound("User not found.")
		}
		return models.User{}, utils.Internal(err, "Failed to load user.")
	}
	return user, nil
}

// List returns every account.
func (s *AccountService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.accounts.ListUsers(ctx)
	if err != nil {
		return nil, utils.Internal(err, "Failed to load users.")
	}
	return users, nil
}

// ChangeAvatar stores src as the user's new avatar and removes the previous file.
func (s *AccountService) ChangeAvatar(ctx context.Context, userID uint, filename string, size int64, src io.Reader) (models.User, error) {
	if src == nil || filename == "" {
		return models.User{}, utils.Validation("Please choose an image.")
	}
	if s.maxAvatar > 0 && size > s.maxAvatar {
		return models.User{}, utils.Validation("Profile picture too big. Should be less than %dkb.", s.maxAvatar/1000)
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return models.User{}, utils.Internal(err, "Couldn't save avatar.")
	}
	name := avatarFileName(filename)
	dst := filepath.Join(s.uploadDir, name)
	if err := writeLimited(dst, src, s.maxAvatar); err != nil {
		_ = os.Remove(dst)
		if errors.Is(err, errAvatarTooBig) {
			return models.User{}, utils.Validation("Profile picture too big. Should be less than %dkb.", s.maxAvatar/1000)
		}
		return models.User{}, utils.Internal(err, "Couldn't save avatar.")
	}

	previous := user.Avatar
	user.Avatar = name
	if err := s.accounts.UpdateUser(ctx, &user); err != nil {
		_ = os.Remove(dst)
		return models.User{}, utils.Internal(err, "Avatar couldn't be changed.")
	}

	if previous != "" && previous != name {
		if err := os.Remove(filepath.Join(s.uploadDir, filepath.Base(previous))); err != nil && !os.IsNotExist(err) {
			utils.Logger.Warn("remove old avatar failed", zap.String("file", previous), zap.Error(err))
		}
	}
	return user, nil
}

var errAvatarTooBig = errors.New("avatar exceeds size limit")

// avatarFileName turns "me.png" into "me<uuid>.png".
func avatarFileName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '.' {
			return '_'
		}
		return r
	}, stem)
	return fmt.Sprintf("%s%s%s", stem, uuid.NewString(), ext)
}

func writeLimited(dst string, src io.Reader, limit int64) error {
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if limit <= 0 {
		_, err = io.Copy(f, src)
		return err
	}
	n, err := io.Copy(f, io.LimitReader(src, limit+1))
	if err != nil {
		return err
	}
	if n > limit {
		return errAvatarTooBig
	}
	return nil
}
