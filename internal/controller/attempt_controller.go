package controller

import (
	"errors"
	"net/http"
	"sensen_backend/internal/service"
	"sensen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

// maxSubmissionBytes bounds a submit body; a full answer sheet is far smaller.
const maxSubmissionBytes = 1 << 20

type startResponse struct {
	*service.StartResult
	Kiosk bool `json:"kiosk"`
}

// @Summary Start or resume an assessment
// @Description Creates the caller's attempt on first visit. A completed attempt answers 303 with the result URL unless retake is set.
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param retake query bool false "Reopen a completed assessment"
// @Param kiosk query bool false "Kiosk display mode"
// @Success 200 {object} util.Response
// @Success 303 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /assessments/{id}/start [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	assessmentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	res, err := c.Service.Start(ctx.Request.Context(), userID, assessmentID, queryFlag(ctx, "retake"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	body := startResponse{StartResult: res, Kiosk: queryFlag(ctx, "kiosk")}
	if res.AlreadyCompleted {
		ctx.Header("Location", res.RedirectURL)
		util.ErrorWithData(ctx, http.StatusSeeOther, "assessment already completed", body)
		return
	}
	util.Success(ctx, body)
}

// @Summary Submit answers
// @Description Body is {"answers": {"<questionId>": "<answer>"}}. Submitting again replaces the previous result.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=service.ScoreResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /assessments/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	assessmentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxSubmissionBytes)
	body, err := ctx.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.Error(ctx, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		util.BadRequest(ctx, "unreadable request body")
		return
	}

	res, err := c.Service.SubmitPayload(ctx.Request.Context(), userID, assessmentID, body)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// @Summary View the result of a completed attempt
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=service.ResultView}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "attempt still in progress, data.resumeUrl points back to start"
// @Router /assessments/{id}/result [get]
func (c *AttemptController) Result(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	assessmentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.Service.ViewResult(ctx.Request.Context(), userID, assessmentID)
	if errors.Is(err, util.ErrNotReady) {
		util.ErrorWithData(ctx, http.StatusConflict, err.Error(), gin.H{"resumeUrl": service.TakeURL(assessmentID)})
		return
	}
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
