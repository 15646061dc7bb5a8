package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/inkblog/models"
)

var _ Store = (*GormStore)(nil)

// GormStore implements Store on top of a GORM connection (MySQL or SQLite).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an opened GORM connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Models lists the tables the store needs migrated.
func Models() []interface{} {
	return []interface{}{&models.User{}, &models.Post{}, &models.Comment{}}
}

// AutoMigrate creates or updates the store's tables.
func (s *GormStore) AutoMigrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(Models()...)
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry") {
		return ErrDuplicate
	}
	return err
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	return user, translate(err)
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	return user, translate(err)
}

func (s *GormStore) GetUsersByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

// UpdateUser writes the mutable profile fields of user.
func (s *GormStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	res := s.db.WithContext(ctx).Model(&models.User{ID: user.ID}).Updates(map[string]interface{}{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"avatar":        user.Avatar,
	})
	return translate(res.Error)
}

// AdjustPostCount adds delta to the user's post counter, clamping at zero.
func (s *GormStore) AdjustPostCount(ctx context.Context, userID uint, delta int) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("post_count", gorm.Expr("CASE WHEN post_count + ? < 0 THEN 0 ELSE post_count + ? END", delta, delta))
	return res.Error
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	if post.CommentIDs == nil {
		post.CommentIDs = models.IDList{}
	}
	return translate(s.db.WithContext(ctx).Create(post).Error)
}

func (s *GormStore) GetPost(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	return post, translate(err)
}

func (s *GormStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.findPosts(s.db.WithContext(ctx).Order("updated_at DESC").Order("id DESC"))
}

func (s *GormStore) ListPostsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	return s.findPosts(s.db.WithContext(ctx).Where("category = ?", category).Order("created_at DESC").Order("id DESC"))
}

func (s *GormStore) ListPostsByCreator(ctx context.Context, creatorID uint) ([]models.Post, error) {
	return s.findPosts(s.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at DESC").Order("id DESC"))
}

func (s *GormStore) findPosts(q *gorm.DB) ([]models.Post, error) {
	posts := []models.Post{}
	err := q.Find(&posts).Error
	return posts, translate(err)
}

// UpdatePost writes title, category and description; the comment list is left alone.
func (s *GormStore) UpdatePost(ctx context.Context, post *models.Post) error {
	res := s.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).Updates(map[string]interface{}{
		"title":       post.Title,
		"category":    post.Category,
		"description": post.Description,
	})
	return translate(res.Error)
}

// DeletePost removes the post and its comments in one transaction.
func (s *GormStore) DeletePost(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	})
}

func (s *GormStore) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Post{}).Count(&n).Error
	return n, err
}

func (s *GormStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(comment).Error)
}

func (s *GormStore) GetComment(ctx context.Context, id uint) (models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	return comment, translate(err)
}

// GetCommentsByIDs loads the comments with the given ids in the order of ids.
// Ids without a matching record are skipped.
func (s *GormStore) GetCommentsByIDs(ctx context.Context, ids []uint) ([]models.Comment, error) {
	out := []models.Comment{}
	if len(ids) == 0 {
		return out, nil
	}
	var found []models.Comment
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err)
	}
	byID := make(map[uint]models.Comment, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *GormStore) UpdateComment(ctx context.Context, comment *models.Comment) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{ID: comment.ID}).Update("text", comment.Text)
	return translate(res.Error)
}

func (s *GormStore) DeleteComment(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendCommentRef pushes commentID onto the post's comment list.
func (s *GormStore) AppendCommentRef(ctx context.Context, postID, commentID uint) error {
	return s.rewriteCommentRefs(ctx, postID, func(ids models.IDList) models.IDList {
		if ids.Contains(commentID) {
			return ids
		}
		return append(ids, commentID)
	})
}

// RemoveCommentRef pulls commentID out of the post's comment list.
func (s *GormStore) RemoveCommentRef(ctx context.Context, postID, commentID uint) error {
	return s.rewriteCommentRefs(ctx, postID, func(ids models.IDList) models.IDList {
		return ids.Without(commentID)
	})
}

func (s *GormStore) rewriteCommentRefs(ctx context.Context, postID uint, fn func(models.IDList) models.IDList) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := selectCommentRefsForUpdate(tx, &post, postID).Error; err != nil {
			return translate(err)
		}
		// UpdateColumn leaves updated_at untouched so comment activity does not reorder listings
		return tx.Model(&models.Post{ID: postID}).UpdateColumn("comment_ids", fn(post.CommentIDs)).Error
	})
}

// selectCommentRefsForUpdate reads the comment list under a row lock so concurrent
// rewrites on MySQL serialize. SQLite has no row locks and skips the clause.
func selectCommentRefsForUpdate(tx *gorm.DB, post *models.Post, postID uint) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id", "comment_ids").First(post, postID)
}

func (s *GormStore) CountComments(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Comment{}).Count(&n).Error
	return n, err
}
