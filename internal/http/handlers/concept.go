package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type ConceptHandler struct {
	conceptService services.ConceptService
}

func NewConceptHandler(conceptService services.ConceptService) *ConceptHandler {
	return &ConceptHandler{conceptService: conceptService}
}

// POST /concepts
func (h *ConceptHandler) Create(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req types.Concept
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.conceptService.Create(dbcOf(c), &req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"concept": out})
}

// GET /concepts/:label
func (h *ConceptHandler) Get(c *gin.Context) {
	out, err := h.conceptService.GetByLabel(dbcOf(c), c.Param("label"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concept": out})
}

// GET /concepts?q=prefix&limit=20
func (h *ConceptHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	out, err := h.conceptService.Search(dbcOf(c), c.Query("q"), limit)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concepts": out})
}
