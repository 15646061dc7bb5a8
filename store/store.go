package store

import (
	"context"
	"errors"

	"github.com/cppla/inkblog/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint (account email) is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// AccountStore persists user accounts.
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	AdjustPostCount(ctx context.Context, userID uint, delta int) error
	CountUsers(ctx context.Context) (int64, error)
}

// ContentStore persists posts and their comments.
type ContentStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uint) (models.Post, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	ListPostsByCategory(ctx context.Context, category string) ([]models.Post, error)
	ListPostsByCreator(ctx context.Context, creatorID uint) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
	CountPosts(ctx context.Context) (int64, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id uint) (models.Comment, error)
	GetCommentsByIDs(ctx context.Context, ids []uint) ([]models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id uint) error
	AppendCommentRef(ctx context.Context, postID, commentID uint) error
	RemoveCommentRef(ctx context.Context, postID, commentID uint) error
	CountComments(ctx context.Context) (int64, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	AccountStore
	ContentStore
}
