package controller

import (
	"apex_tracker_backend/internal/service"
	"apex_tracker_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService   *service.SessionService
	DashboardService *service.DashboardService
}

func NewSessionController(sessionService *service.SessionService, dashboardService *service.DashboardService) *SessionController {
	return &SessionController{
		SessionService:   sessionService,
		DashboardService: dashboardService,
	}
}

// swagger:model LogSessionRequest
type LogSessionRequest struct {
	ConceptID uint   `json:"concept_id" binding:"required"`
	Score     *int   `json:"score" binding:"required"`
	Duration  int    `json:"duration"`
	Notes     string `json:"notes"`
}

// Log godoc
// @Summary 记录一次学习
// @Description 追加学习记录并按 70/30 平滑更新概念掌握度，返回记录和更新后的概念
// @Tags 学习记录
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   body body LogSessionRequest true "学习记录"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "得分缺失或超出 0-100"
// @Failure 404 {object} util.Response "概念不存在"
// @Failure 409 {object} util.Response "并发更新冲突"
// @Router /sessions [post]
func (c *SessionController) Log(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req LogSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, concept, err := c.SessionService.LogSession(claims.UserID, req.ConceptID, *req.Score, req.Duration, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrScoreOutOfRange):
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

	util.Created(ctx, gin.H{
		"session": session,
		"concept": gin.H{
			"id":      concept.ID,
			"mastery": concept.Mastery,
			"status":  concept.Status,
		},
	})
}

// List godoc
// @Summary 最近学习记录
// @Tags 学习记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /sessions [get]
func (c *SessionController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	sessions, err := c.SessionService.ListRecent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"sessions": sessions})
}

// Weekly godoc
// @Summary 最近 7 天按天汇总
// @Tags 学习记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /sessions/weekly [get]
func (c *SessionController) Weekly(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	weekly, err := c.DashboardService.WeeklyActivity(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"weekly": weekly})
}

// Stats godoc
// @Summary 全量学习统计
// @Tags 学习记录
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /sessions/stats [get]
func (c *SessionController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.DashboardService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"stats": stats})
}
