package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/inkblog/middleware"
	"github.com/cppla/inkblog/services"
	"github.com/cppla/inkblog/utils"
)

// AuthController handles account endpoints: registration, login, logout and profile changes.
type AuthController struct {
	creds    *services.CredentialService
	accounts *services.AccountService
	guard    *services.Guard
	cache    *utils.Cache
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(creds *services.CredentialService, accounts *services.AccountService, guard *services.Guard, cache *utils.Cache) *AuthController {
	return &AuthController{creds: creds, accounts: accounts, guard: guard, cache: cache}
}

// Register creates a new account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		Password2       string `json:"password2"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}
	confirm := req.ConfirmPassword
	if confirm == "" {
		confirm = req.Password2
	}

	user, err := a.creds.Register(ctx.Request.Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Respond(ctx, http.StatusCreated, 0, "New user "+user.Email+" registered.", user)
}

// Login checks credentials and issues a token.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	res, err := a.creds.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, res)
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	if err := a.guard.Revoke(ctx.Request.Context(), ctx.GetString(middleware.ContextTokenKey)); err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "Logged out."})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	user, err := a.accounts.Get(ctx.Request.Context(), identity.UserID)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, user)
}

// ListUsers returns every account without credentials.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	users, err := a.accounts.List(ctx.Request.Context())
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	utils.Success(ctx, users)
}

// GetUser returns a single account by id.
func (a *AuthController) GetUser(ctx *gin.Context) {
	id, err := parseID(ctx, "id")
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	key := userPrefix(id) + "profile"
	if serveCached(ctx, a.cache, key) {
		return
	}
	user, err := a.accounts.Get(ctx.Request.Context(), id)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	successCached(ctx, a.cache, key, user)
}

// EditUser updates name, email and optionally the password of the caller.
func (a *AuthController) EditUser(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	var req struct {
		Name               string `json:"name"`
		Email              string `json:"email"`
		CurrentPassword    string `json:"currentPassword"`
		NewPassword        string `json:"newPassword"`
		ConfirmNewPassword string `json:"confirmNewPassword"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, errInvalidPayload.Wrap(err))
		return
	}

	user, err := a.creds.UpdateProfile(ctx.Request.Context(), identity.UserID, services.ProfileInput{
		Name:               req.Name,
		Email:              req.Email,
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		ConfirmNewPassword: req.ConfirmNewPassword,
	})
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	// names are embedded in cached post pages through commenters
	a.cache.InvalidateByPrefix(ctx.Request.Context(), userPrefix(user.ID))
	a.cache.InvalidateByPrefix(ctx.Request.Context(), utils.CachePostDetailPrefix)
	utils.Success(ctx, user)
}

// ChangeAvatar replaces the caller's profile picture from the multipart field "avatar".
func (a *AuthController) ChangeAvatar(ctx *gin.Context) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	header, err := ctx.FormFile("avatar")
	if err != nil {
		utils.Fail(ctx, utils.Validation("Please choose an image."))
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.Fail(ctx, utils.Internal(err, "Couldn't read avatar."))
		return
	}
	defer file.Close()

	user, err := a.accounts.ChangeAvatar(ctx.Request.Context(), identity.UserID, header.Filename, header.Size, file)
	if err != nil {
		utils.Fail(ctx, err)
		return
	}
	a.cache.InvalidateByPrefix(ctx.Request.Context(), userPrefix(user.ID))
	utils.Success(ctx, user)
}
