package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cppla/inkblog/models"
	"github.com/cppla/inkblog/store"
	"github.com/cppla/inkblog/utils"
)

// CommentService implements comment operations. Comments are attached to
// a post through the post's ordered comment list.
type CommentService struct {
	accounts store.AccountStore
	content  store.ContentStore
}

// NewCommentService builds a CommentService.
func NewCommentService(accounts store.AccountStore, content store.ContentStore) *CommentService {
	return &CommentService{accounts: accounts, content: content}
}

// Create adds a comment by actor to an existing post.
func (s *CommentService) Create(ctx context.Context, actor Identity, postID uint, text string) (models.Comment, error) {
	text = utils.Sanitize(text)
	if text == "" {
		return models.Comment{}, utils.Validation("Please write a comment.")
	}

	if _, err := s.content.GetPost(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Comment{}, utils.NotFound("Post not found.")
		}
		return models.Comment{}, utils.Internal(err, "Couldn't create comment.")
	}

	comment := models.Comment{PostID: postID, CommenterID: actor.UserID, Text: text}
	if err := s.content.CreateComment(ctx, &comment); err != nil {
		return models.Comment{}, utils.Internal(err, "Couldn't create comment.")
	}

	if err := s.content.AppendCommentRef(ctx, postID, comment.ID); err != nil {
		utils.Logger.Warn("append comment ref failed",
			zap.Uint("post_id", postID), zap.Uint("comment_id", comment.ID), zap.Error(err))
	}

	comment.Commenter = s.author(ctx, actor)
	return comment, nil
}

// Edit replaces the text of a comment written by actor.
func (s *CommentService) Edit(ctx context.Context, actor Identity, id uint, text string) (models.Comment, error) {
	text = utils.Sanitize(text)
	if text == "" {
		return models.Comment{}, utils.Validation("Please write a comment.")
	}

	comment, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return models.Comment{}, err
	}

	comment.Text = text
	if err := s.content.UpdateComment(ctx, &comment); err != nil {
		return models.Comment{}, utils.Internal(err, "Couldn't update comment.")
	}
	comment.Commenter = s.author(ctx, actor)
	return comment, nil
}

// Delete unlinks a comment written by actor from its post and removes it.
// The deleted comment is returned so callers know which post changed.
func (s *CommentService) Delete(ctx context.Context, actor Identity, id uint) (models.Comment, error) {
	comment, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return models.Comment{}, err
	}

	if err := s.content.RemoveCommentRef(ctx, comment.PostID, comment.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		utils.Logger.Warn("remove comment ref failed",
			zap.Uint("post_id", comment.PostID), zap.Uint("comment_id", comment.ID), zap.Error(err))
	}

	if err := s.content.DeleteComment(ctx, comment.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Comment{}, utils.NotFound("Comment not found.")
		}
		return models.Comment{}, utils.Internal(err, "Couldn't delete comment.")
	}
	return comment, nil
}

func (s *CommentService) loadOwned(ctx context.Context, actor Identity, id uint) (models.Comment, error) {
	comment, err := s.content.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Comment{}, utils.NotFound("Comment not found.")
		}
		return models.Comment{}, utils.Internal(err, "Failed to load comment.")
	}
	if err := AuthorizeOwner(comment.CommenterID, actor.UserID, "comment"); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// author prefers the stored name so edits made after login are reflected.
func (s *CommentService) author(ctx context.Context, actor Identity) *models.Author {
	if u, err := s.accounts.GetUser(ctx, actor.UserID); err == nil {
		return &models.Author{ID: u.ID, Name: u.Name}
	}
	return &models.Author{ID: actor.UserID, Name: actor.Name}
}
