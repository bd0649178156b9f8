package controller

import (
	"apex_tracker_backend/internal/service"
	"apex_tracker_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ConceptController struct {
	ConceptService *service.ConceptService
}

func NewConceptController(conceptService *service.ConceptService) *ConceptController {
	return &ConceptController{ConceptService: conceptService}
}

// swagger:model CreateConceptRequest
type CreateConceptRequest struct {
	SubjectID uint   `json:"subject_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// swagger:model SetMasteryRequest
type SetMasteryRequest struct {
	Mastery *int `json:"mastery" binding:"required"`
}

// Create godoc
// @Summary 新建概念
// @Tags 概念
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   body body CreateConceptRequest true "概念信息"
// @Success 201 {object} util.Response{data=model.Concept}
// @Failure 404 {object} util.Response "学科不存在或不属于当前用户"
// @Router /concepts [post]
func (c *ConceptController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateConceptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	concept, err := c.ConceptService.Create(claims.UserID, req.SubjectID, req.Name)
	if err != nil {
		if errors.Is(err, util.ErrSubjectNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, gin.H{"concept": concept})
}

// SetMastery godoc
// @Summary 直接设置掌握度
// @Description 档位由新掌握度推导，不接受外部指定
// @Tags 概念
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "概念 ID"
// @Param   body body SetMasteryRequest true "掌握度 0-100"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "并发更新冲突"
// @Router /concepts/{id}/mastery [patch]
func (c *ConceptController) SetMastery(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid concept id")
		return
	}

	var req SetMasteryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	concept, err := c.ConceptService.SetMastery(uint(id), claims.UserID, *req.Mastery)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMasteryOutOfRange):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrConceptNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrConflict):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"id":      concept.ID,
		"mastery": concept.Mastery,
		"status":  concept.Status,
	})
}

// Delete godoc
// @Summary 删除概念
// @Description 级联删除其学习记录
// @Tags 概念
// @Produce json
// @Security ApiKeyAuth
// @Param   id path int true "概念 ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /concepts/{id} [delete]
func (c *ConceptController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid concept id")
		return
	}

	if err := c.ConceptService.Delete(uint(id), claims.UserID); err != nil {
		if errors.Is(err, util.ErrConceptNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"success": true})
}
