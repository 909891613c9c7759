package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	repouser "github.com/yungbote/usr-annotation-backend/internal/data/repos/user"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /me
func (uh *UserHandler) GetMe(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	me, err := uh.userService.Get(dbcOf(c), actor.UserID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /users?role=annotator&status=active
func (uh *UserHandler) List(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	users, err := uh.userService.List(dbcOf(c), repouser.ListFilter{
		Role:   user.Role(c.Query("role")),
		Status: user.AccountStatus(c.Query("status")),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"users": users})
}

// GET /users/:id
func (uh *UserHandler) Get(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := uh.userService.Get(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// PATCH /users/:id/role
// body: { "role": "annotator" | "reviewer" | "admin" | "pending" }
func (uh *UserHandler) SetRole(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Role user.Role `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.SetRole(dbcOf(c), actor, id, req.Role)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// POST /users/:id/suspend
func (uh *UserHandler) Suspend(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := uh.userService.Suspend(dbcOf(c), actor, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}

// DELETE /users/:id
func (uh *UserHandler) Delete(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := uh.userService.Delete(dbcOf(c), actor, id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
