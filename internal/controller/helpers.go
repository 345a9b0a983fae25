package controller

import (
	"sensen_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID reads a positive id path parameter, replying 400 when it is not one.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// currentUser returns the authenticated user id, replying 401 when absent.
func currentUser(ctx *gin.Context) (uint, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return 0, false
	}
	return claims.UserID, true
}

func queryFlag(ctx *gin.Context, name string) bool {
	v, err := strconv.ParseBool(ctx.Query(name))
	return err == nil && v
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
