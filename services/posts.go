package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/cppla/inkblog/models"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

const (
	// CommentPageSize is the number of comments returned per post page.
	CommentPageSize = 10
	// MinDescriptionLength applies to edited post descriptions, counted in runes.
	MinDescriptionLength = 12
)

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title       string
	Category    string
	Description string
}

// PostDetail is a post together with one page of its comments.
type PostDetail struct {
	Post       models.Post      `json:"post"`
	Comments   []models.Comment `json:"comments"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
}

// PostService implements post operations on top of the stores.
type PostService struct {
	accounts store.AccountStore
	content  store.ContentStore
}

// NewPostService builds a PostService.
func NewPostService(accounts store.AccountStore, content store.ContentStore) *PostService {
	return &PostService{accounts: accounts, content: content}
}

func (in PostInput) clean() PostInput {
	return PostInput{
		Title:       utils.SanitizeText(in.Title),
		Category:    utils.SanitizeText(in.Category),
		Description: utils.Sanitize(in.Description),
	}
}

// Create stores a new post owned by actor and bumps the creator's post count.
func (s *PostService) Create(ctx context.Context, actor Identity, in PostInput) (models.Post, error) {
	in = in.clean()
	if in.Title == "" || in.Category == "" || in.Description == "" {
		return models.Post{}, utils.Validation("Fill in all fields and choose a category.")
	}

	post := models.Post{
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		CreatorID:   actor.UserID,
	}
	if err := s.content.CreatePost(ctx, &post); err != nil {
		return models.Post{}, utils.Internal(err, "Post couldn't be created.")
	}

	if err := s.accounts.AdjustPostCount(ctx, actor.UserID, 1); err != nil {
		utils.Logger.Warn("post count increment failed",
			zap.Uint("user_id", actor.UserID), zap.Uint("post_id", post.ID), zap.Error(err))
	}
	return post, nil
}

// List returns every post, most recently updated first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	posts, err := s.content.ListPosts(ctx)
	if err != nil {
		return nil, utils.Internal(err, "Failed to load posts.")
	}
	return posts, nil
}

// ListByCategory returns the posts of one category, newest first.
func (s *PostService) ListByCategory(ctx context.Context, category string) ([]models.Post, error) {
	posts, err := s.content.ListPostsByCategory(ctx, category)
	if err != nil {
		return nil, utils.Internal(err, "Failed to load posts.")
	}
	return posts, nil
}

// ListByCreator returns the posts written by one user, newest first.
func (s *PostService) ListByCreator(ctx context.Context, creatorID uint) ([]models.Post, error) {
	posts, err := s.content.ListPostsByCreator(ctx, creatorID)
	if err != nil {
		return nil, utils.Internal(err, "Failed to load posts.")
	}
	return posts, nil
}

// Get loads a post with the requested page of comments. Pages below 1 are treated as 1.
func (s *PostService) Get(ctx context.Context, id uint, page int) (PostDetail, error) {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return PostDetail{}, err
	}
	if page < 1 {
		page = 1
	}

	ids, totalPages := post.CommentIDs.Page(page, CommentPageSize)
	comments, err := s.content.GetCommentsByIDs(ctx, ids)
	if err != nil {
		return PostDetail{}, utils.Internal(err, "Failed to load comments.")
	}
	s.attachCommenters(ctx, comments)

	return PostDetail{Post: post, Comments: comments, Page: page, TotalPages: totalPages}, nil
}

// Edit replaces title, category and description of a post owned by actor.
func (s *PostService) Edit(ctx context.Context, actor Identity, id uint, in PostInput) (models.Post, error) {
	in = in.clean()
	if in.Title == "" || in.Category == "" || in.Description == "" {
		return models.Post{}, utils.Validation("Fill in all fields.")
	}
	if utf8.RuneCountInString(in.Description) < MinDescriptionLength {
		return models.Post{}, utils.Validation("Description is too short.")
	}

	post, err := s.loadPost(ctx, id)
	if err != nil {
		return models.Post{}, err
	}
	if err := AuthorizeOwner(post.CreatorID, actor.UserID, "post"); err != nil {
		return models.Post{}, err
	}

	post.Title = in.Title
	post.Category = in.Category
	post.Description = in.Description
	if err := s.content.UpdatePost(ctx, &post); err != nil {
		return models.Post{}, utils.Internal(err, "Couldn't update post.")
	}
	return s.loadPost(ctx, id)
}

// Delete removes a post owned by actor and decrements the creator's post count.
func (s *PostService) Delete(ctx context.Context, actor Identity, id uint) error {
	post, err := s.loadPost(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeOwner(post.CreatorID, actor.UserID, "post"); err != nil {
		return err
	}

	if err := s.content.DeletePost(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return utils.NotFound("Post not found.")
		}
		return utils.Internal(err, "Couldn't delete post.")
	}

	if err := s.accounts.AdjustPostCount(ctx, post.CreatorID, -1); err != nil {
		utils.Logger.Warn("post count decrement failed",
			zap.Uint("user_id", post.CreatorID), zap.Uint("post_id", id), zap.Error(err))
	}
	return nil
}

func (s *PostService) loadPost(ctx context.Context, id uint) (models.Post, error) {
	post, err := s.content.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Post{}, utils.NotFound("Post not found.")
		}
		return models.Post{}, utils.Internal(err, "Failed to load post.")
	}
	return post, nil
}

// attachCommenters fills in commenter names. A failed lookup leaves them empty.
func (s *PostService) attachCommenters(ctx context.Context, comments []models.Comment) {
	if len(comments) == 0 {
		return
	}
	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.CommenterID)
	}
	users, err := s.accounts.GetUsersByIDs(ctx, utils.Unique(ids))
	if err != nil {
		utils.Logger.Warn("load commenters failed", zap.Error(err))
		return
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range comments {
		if u, ok := byID[comments[i].CommenterID]; ok {
			comments[i].Commenter = &models.Author{ID: u.ID, Name: u.Name}
		}
	}
}
