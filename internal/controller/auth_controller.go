package controller

import (
	"apex_tracker_backend/internal/model"
	"apex_tracker_backend/internal/service"
	"apex_tracker_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register godoc
// @Summary 注册新用户
// @Description 注册不算登录，连续登录天数从首次登录开始计
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}

	token, err := c.AuthService.Register(user)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			util.Error(ctx, http.StatusConflict, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"token": token})
}

// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 密码登录
// @Description 认证通过后更新连续登录天数并返回令牌和最新用户
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Failure 409 {object} util.Response "并发更新冲突"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, http.StatusUnauthorized, err.Error())
		case errors.Is(err, util.ErrConflict):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"token": token, "user": user})
}

// swagger:model GoogleLoginRequest
type GoogleLoginRequest struct {
	Credential string `json:"credential" binding:"required"`
}

// GoogleLogin godoc
// @Summary Google 登录
// @Description 校验 Google ID Token，按邮箱 upsert 用户并更新连续登录天数
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body GoogleLoginRequest true "Google ID Token"
// @Success 200 {object} util.Response{data=object}
// @Failure 401 {object} util.Response
// @Router /auth/google [post]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	var req GoogleLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.GoogleLogin(ctx.Request.Context(), req.Credential)
	if err != nil {
		if errors.Is(err, util.ErrConflict) {
			util.Conflict(ctx, err.Error())
		} else {
			util.Error(ctx, http.StatusUnauthorized, "Google authentication failed")
		}
		return
	}

	util.Success(ctx, gin.H{"token": token, "user": user})
}

// GetMe godoc
// @Summary 获取当前用户
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User}
// @Failure 401 {object} util.Response
// @Router /auth/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}

type ProfilePicRequest struct {
	ProfilePic string `json:"profile_pic" binding:"required"`
}

// UpdateProfilePic godoc
// @Summary 设置头像地址
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ProfilePicRequest true "头像 URL"
// @Success 200 {object} util.Response
// @Router /auth/profile-pic [put]
func (c *AuthController) UpdateProfilePic(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ProfilePicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.UpdateProfilePic(claims.UserID, req.ProfilePic); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"success": true})
}
