package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/http/middleware"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

func dbcOf(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}

// pathID reads a positive numeric path parameter, responding 422 when it is not one.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondErr(c, apperrors.NewValidation(fmt.Sprintf("%s must be a positive integer", name)))
		return 0, false
	}
	return uint(id), true
}

func actorOf(c *gin.Context) (user.Actor, bool) {
	actor, ok := middleware.Actor(c)
	if !ok {
		response.RespondErr(c, fmt.Errorf("not authenticated: %w", apperrors.ErrUnauthorized))
	}
	return actor, ok
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondErr(c, apperrors.NewValidation("invalid request body: "+err.Error()))
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		response.RespondErr(c, apperrors.NewValidation("invalid request body: "+err.Error()))
		return false
	}
	return true
}

func requireAdmin(c *gin.Context) (user.Actor, bool) {
	return requireRole(c, user.RoleAdmin)
}

func requireRole(c *gin.Context, roles ...user.Role) (user.Actor, bool) {
	actor, ok := actorOf(c)
	if !ok {
		return actor, false
	}
	for _, r := range roles {
		if actor.Role == r {
			return actor, true
		}
	}
	response.RespondErr(c, apperrors.Forbidden("role %q may not perform this request", actor.Role))
	return actor, false
}

// annotatingRoles excludes pending accounts.
var annotatingRoles = []user.Role{user.RoleAdmin, user.RoleAnnotator, user.RoleReviewer}

var errForeignQueue = apperrors.Forbidden("only admins may read another user's assignments")
