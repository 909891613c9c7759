package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/logger"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type AssignmentHandlerDeps struct {
	Log     *logger.Logger
	Service services.AssignmentService
}

type AssignmentHandler struct {
	log     *logger.Logger
	service services.AssignmentService
}

func NewAssignmentHandlerWithDeps(deps AssignmentHandlerDeps) *AssignmentHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &AssignmentHandler{log: log.With("handler", "AssignmentHandler"), service: deps.Service}
}

// POST /assignments
func (h *AssignmentHandler) Create(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	var req services.CreateAssignmentInput
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.service.Create(dbcOf(c), actor, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"assignment": a})
}

// POST /assignments/:id/transitions/:action
// body (optional): { "reviewer_id": 7, "reason": "..." }
func (h *AssignmentHandler) Transition(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.TransitionInput
	if !bindOptionalJSON(c, &req) {
		return
	}
	action := assignment.Action(strings.TrimSpace(c.Param("action")))
	a, err := h.service.Transition(dbcOf(c), actor, id, action, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": a})
}

// POST /assignments/:id/reassign
// body: { "annotator_id": 4 }
func (h *AssignmentHandler) Reassign(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		AnnotatorID uint `json:"annotator_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.service.Reassign(dbcOf(c), actor, id, req.AnnotatorID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": a})
}

// POST /assignments/:id/subtasks
// body: { "subtasks": { "dependency": true } }
func (h *AssignmentHandler) Widen(c *gin.Context) {
	actor, ok := actorOf(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Subtasks assignment.Subtasks `json:"subtasks"`
	}
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.service.WidenSubtasks(dbcOf(c), actor, id, req.Subtasks)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": a})
}

// GET /assignments/:id includes the actions currently enabled.
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dbc := dbcOf(c)
	a, err := h.service.Get(dbc, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	enabled, err := h.service.Enabled(dbc, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignment": a, "enabled_actions": enabled})
}

// GET /assignments/:id/events
func (h *AssignmentHandler) Events(c *gin.Context) {
	listChildren(c, "events", h.service.Events)
}

func statusesParam(c *gin.Context) []assignment.Status {
	var out []assignment.Status
	for _, raw := range c.QueryArray("status") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, assignment.Status(part))
			}
		}
	}
	return out
}

// ownOrAdmin lets non-admins read only their own queues.
func ownOrAdmin(c *gin.Context, id uint) bool {
	actor, ok := actorOf(c)
	if !ok {
		return false
	}
	if actor.Role != user.RoleAdmin && actor.UserID != id {
		response.RespondErr(c, errForeignQueue)
		return false
	}
	return true
}

// GET /annotators/:id/assignments?status=Assigned,InProgress
func (h *AssignmentHandler) ListByAnnotator(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok || !ownOrAdmin(c, id) {
		return
	}
	out, err := h.service.ListByAnnotator(dbcOf(c), id, statusesParam(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": out})
}

// GET /reviewers/:id/assignments?status=InReview
func (h *AssignmentHandler) ListByReviewer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok || !ownOrAdmin(c, id) {
		return
	}
	out, err := h.service.ListByReviewer(dbcOf(c), id, statusesParam(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"assignments": out})
}

// GET /annotators/:id/workload
func (h *AssignmentHandler) Workload(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok || !ownOrAdmin(c, id) {
		return
	}
	out, err := h.service.WorkloadSummary(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"summary": out})
}
