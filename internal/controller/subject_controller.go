package controller

import (
	"apex_tracker_backend/internal/service"
	"apex_tracker_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SubjectController struct {
	SubjectService *service.SubjectService
}

func NewSubjectController(subjectService *service.SubjectService) *SubjectController {
	return &SubjectController{SubjectService: subjectService}
}

// swagger:model CreateSubjectRequest
type CreateSubjectRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// swagger:model UpdateSubjectRequest
type UpdateSubjectRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
	Icon  string `json:"icon" binding:"required"`
}

// List godoc
// @Summary 学科列表
// @Description 返回当前用户的学科，带概念数和平均掌握度
// @Tags 学科
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /subjects [get]
func (c *SubjectController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	subjects, err := c.SubjectService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subjects": subjects})
}

// ListConcepts godoc
// @Summary 学科下的概念列表
// @Tags 学科
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "学科 ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /subjects/{id}/concepts [get]
func (c *SubjectController) ListConcepts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	concepts, err := c.SubjectService.ListConcepts(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"concepts": concepts})
}

// Create godoc
// @Summary 新建学科
// @Tags 学科
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   body body CreateSubjectRequest true "学科信息"
// @Success 201 {object} util.Response{data=model.Subject}
// @Router /subjects [post]
func (c *SubjectController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 颜色和图标给默认值，和库里的列默认保持一致
	if req.Color == "" {
		req.Color = "#E8C547"
	}
	if req.Icon == "" {
		req.Icon = "◎"
	}

	subject, err := c.SubjectService.Create(claims.UserID, req.Name, req.Color, req.Icon)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"subject": subject})
}

// Update godoc
// @Summary 更新学科
// @Tags 学科
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "学科 ID"
// @Param   body body UpdateSubjectRequest true "学科信息"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "不存在或不属于当前用户"
// @Router /subjects/{id} [put]
func (c *SubjectController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	var req UpdateSubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SubjectService.Update(uint(id), claims.UserID, req.Name, req.Color, req.Icon); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"success": true})
}

// Delete godoc
// @Summary 删除学科
// @Description 级联删除其概念与学习记录
// @Tags 学科
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "学科 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /subjects/{id} [delete]
func (c *SubjectController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid subject id")
		return
	}

	if err := c.SubjectService.Delete(uint(id), claims.UserID); err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"success": true})
}
