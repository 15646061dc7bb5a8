package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	posts *services.PostService
	cache *utils.Cache
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *services.PostService, cache *utils.Cache) *PostController {
	return &PostController{posts: posts, cache: cache}
}

type postRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (r postRequest) input() services.PostInput {
	return services.PostInput{Title: r.Title, Category: r.Category, Description: r.Description}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), identity, req.input())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	p.cache.InvalidateByPrefix(ctx.Request.Context(), utils.CachePostListPrefix)
	p.cache.InvalidateByPrefix(ctx.Request.Context(), userPrefix(identity.UserID))
	utils.Created(ctx, post)
}

// ListPosts returns every post, most recently updated first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	key := utils.CachePostListPrefix + "all"
	if serveCached(ctx, p.cache, key) {
		return
	}
	posts, err := p.posts.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	successCached(ctx, p.cache, key, posts)
}

// GetPost returns a post with one page of comments, selected by ?page=N.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	page := parsePage(ctx.Query("page"))
	key := postDetailPrefix(id) + strconv.Itoa(page)
	if serveCached(ctx, p.cache, key) {
		return
	}

	detail, err := p.posts.Get(ctx.Request.Context(), id, page)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	successCached(ctx, p.cache, key, detail)
}

// ListPostsByCategory returns the posts of one category.
func (p *PostController) ListPostsByCategory(ctx *gin.Context) {
	category := strings.TrimSpace(ctx.Param("category"))
	key := utils.CachePostListPrefix + "category:" + category
	if serveCached(ctx, p.cache, key) {
		return
	}
	posts, err := p.posts.ListByCategory(ctx.Request.Context(), category)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	successCached(ctx, p.cache, key, posts)
}

// ListUserPosts returns posts created by a specific user.
func (p *PostController) ListUserPosts(ctx *gin.Context) {
	userID, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	key := utils.CachePostListPrefix + "creator:" + strconv.FormatUint(uint64(userID), 10)
	if serveCached(ctx, p.cache, key) {
		return
	}
	posts, err := p.posts.ListByCreator(ctx.Request.Context(), userID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	successCached(ctx, p.cache, key, posts)
}

// UpdatePost lets the creator change title, category and description.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	post, err := p.posts.Edit(ctx.Request.Context(), identity, id, req.input())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	p.cache.InvalidateByPrefix(ctx.Request.Context(), utils.CachePostListPrefix)
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postDetailPrefix(id))
	utils.Success(ctx, post)
}

// DeletePost removes a post owned by the caller.
func (p *PostController) DeletePost(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), identity, id); err != nil {
		utils.Fail(ctx, err)
		return
	}
	p.cache.InvalidateByPrefix(ctx.Request.Context(), utils.CachePostListPrefix)
	p.cache.InvalidateByPrefix(ctx.Request.Context(), postDetailPrefix(id))
	p.cache.InvalidateByPrefix(ctx.Request.Context(), userPrefix(identity.UserID))
	utils.Success(ctx, gin.H{"message": "Post " + strconv.FormatUint(uint64(id), 10) + " deleted successfully."})
}
