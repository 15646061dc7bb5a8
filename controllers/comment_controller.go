package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

// CommentController manages comments attached to posts.
type CommentController struct {
	comments *services.CommentService
	cache    *utils.Cache
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(comments *services.CommentService, cache *utils.Cache) *CommentController {
	return &CommentController{comments: comments, cache: cache}
}

type commentRequest struct {
	CommentText string `json:"commentText"`
	Comment     string `json:"comment"`
	Text        string `json:"text"`
}

func (r commentRequest) body() string {
	switch {
	case r.CommentText != "":
		return r.CommentText
	case r.Text != "":
		return r.Text
	}
	return r.Comment
}

// CreateComment adds a comment to the post in the path.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	postID, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	comment, err := c.comments.Create(ctx.Request.Context(), identity, postID, req.body())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	c.invalidate(ctx, postID)
	utils.Created(ctx, comment)
}

// EditComment replaces the text of the caller's comment.
func (c *CommentController) EditComment(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := parseID(ctx, "commentId")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	comment, err := c.comments.Edit(ctx.Request.Context(), identity, id, req.body())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	c.invalidate(ctx, comment.PostID)
	utils.Success(ctx, comment)
}

// DeleteComment removes the caller's comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := parseID(ctx, "commentId")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	comment, err := c.comments.Delete(ctx.Request.Context(), identity, id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	c.invalidate(ctx, comment.PostID)
	utils.Success(ctx, gin.H{"id": comment.ID, "post_id": comment.PostID})
}

// invalidate drops cached pages of the post and every post listing,
// since listings carry each post's comment ids.
func (c *CommentController) invalidate(ctx *gin.Context, postID uint) {
	c.cache.InvalidateByPrefix(ctx.Request.Context(), postDetailPrefix(postID))
	c.cache.InvalidateByPrefix(ctx.Request.Context(), utils.CachePostListPrefix)
}
