package controller

import (
	"sensen_backend/internal/service"
	"sensen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

// @Summary List active assessments
// @Description Each entry carries the caller's attempt status.
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.AssessmentSummary}
// @Router /assessments [get]
func (c *AssessmentController) List(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	list, err := c.Service.ListForUser(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Training progress of the caller
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressView}
// @Router /progress [get]
func (c *AssessmentController) Progress(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	view, err := c.Service.Progress(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary Leaderboard by average score
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /leaderboard [get]
func (c *AssessmentController) Leaderboard(ctx *gin.Context) {
	board, err := c.Service.Leaderboard(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, board)
}
