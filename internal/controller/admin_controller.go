package controller

import (
	"sensen_backend/internal/service"
	"sensen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController serves assessment authoring and user management.
type AdminController struct {
	Assessments *service.AssessmentService
	Users       *service.UserService
}

func NewAdminController(assessments *service.AssessmentService, users *service.UserService) *AdminController {
	return &AdminController{Assessments: assessments, Users: users}
}

// @Summary List all assessments
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/assessments [get]
func (c *AdminController) ListAssessments(ctx *gin.Context) {
	page, limit := pagination(ctx)
	list, total, err := c.Assessments.ListAssessments(ctx.Request.Context(), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// @Summary Create an assessment with its questions
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.AssessmentRequest true "Assessment"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/assessments [post]
func (c *AdminController) CreateAssessment(ctx *gin.Context) {
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.Assessments.CreateAssessment(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary Get an assessment with answers and explanations
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /admin/assessments/{id} [get]
func (c *AdminController) GetAssessment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	a, err := c.Assessments.GetAssessment(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// @Summary Update assessment fields
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param body body service.AssessmentRequest true "Assessment"
// @Success 200 {object} util.Response
// @Router /admin/assessments/{id} [put]
func (c *AdminController) UpdateAssessment(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.AssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	a, err := c.Assessments.UpdateAssessment(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// @Summary Activate or deactivate an assessment
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response
// @Router /admin/assessments/{id}/active [patch]
func (c *AdminController) SetActive(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Assessments.SetActive(ctx.Request.Context(), id, *req.IsActive); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "isActive": *req.IsActive})
}

// @Summary Add a question
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param body body service.QuestionRequest true "Question"
// @Success 201 {object} util.Response
// @Router /admin/assessments/{id}/questions [post]
func (c *AdminController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.Assessments.AddQuestion(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// @Summary Update a question
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param questionId path int true "Question ID"
// @Param body body service.QuestionRequest true "Question"
// @Success 200 {object} util.Response
// @Router /admin/assessments/{id}/questions/{questionId} [put]
func (c *AdminController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	q, err := c.Assessments.UpdateQuestion(ctx.Request.Context(), id, questionID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// @Summary Delete a question
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Param questionId path int true "Question ID"
// @Success 200 {object} util.Response
// @Router /admin/assessments/{id}/questions/{questionId} [delete]
func (c *AdminController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}
	if err := c.Assessments.DeleteQuestion(ctx.Request.Context(), id, questionID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary List attempts of an assessment
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Assessment ID"
// @Success 200 {object} util.Response{data=[]service.AttemptRow}
// @Router /admin/assessments/{id}/attempts [get]
func (c *AdminController) ListAttempts(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	rows, err := c.Assessments.ListAttempts(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// @Summary Create a user and its profile
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.CreateUserRequest true "User"
// @Success 201 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	u, err := c.Users.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, u)
}

// @Summary List users
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, limit := pagination(ctx)
	users, total, err := c.Users.ListUsers(ctx.Request.Context(), page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}
