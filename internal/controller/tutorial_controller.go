package controller

import (
	"sensen_backend/internal/service"
	"sensen_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TutorialController struct {
	Service *service.TutorialService
}

func NewTutorialController(svc *service.TutorialService) *TutorialController {
	return &TutorialController{Service: svc}
}

// @Summary List tutorials
// @Tags tutorials
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "Category filter"
// @Success 200 {object} util.Response{data=[]service.TutorialView}
// @Router /tutorials [get]
func (c *TutorialController) List(ctx *gin.Context) {
	list, err := c.Service.List(ctx.Request.Context(), ctx.Query("category"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary Register a YouTube tutorial
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TutorialRequest true "Tutorial"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/tutorials/youtube [post]
func (c *TutorialController) CreateYouTube(ctx *gin.Context) {
	var req service.TutorialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	v, err := c.Service.CreateYouTube(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, v)
}

// @Summary Upload an MP4 tutorial
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Title"
// @Param category formData string true "Category"
// @Param description formData string false "Description"
// @Param file formData file true "MP4 video"
// @Success 201 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /admin/tutorials/upload [post]
func (c *TutorialController) Upload(ctx *gin.Context) {
	var req service.TutorialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		util.BadRequest(ctx, "unreadable file")
		return
	}
	defer file.Close()

	v, err := c.Service.UploadLocal(ctx.Request.Context(), req, fileHeader.Filename, file)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, v)
}

// @Summary Delete a tutorial
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Tutorial ID"
// @Success 200 {object} util.Response
// @Router /admin/tutorials/{id} [delete]
func (c *TutorialController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.Service.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
