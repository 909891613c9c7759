package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

type AnnotationHandler struct {
	annotationService services.AnnotationService
}

func NewAnnotationHandler(annotationService services.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{annotationService: annotationService}
}

// POST /segments/:id/usrs
// body: { "sentence_type": "...", "language": "...", "new_revision": false }
func (h *AnnotationHandler) CreateUSR(c *gin.Context) {
	if _, ok := requireRole(c, annotatingRoles...); !ok {
		return
	}
	segmentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.USRInput
	if !bindOptionalJSON(c, &req) {
		return
	}
	usr, err := h.annotationService.CreateUSR(dbcOf(c), segmentID, req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"usr": usr})
}

// GET /segments/:id/usrs lists every revision, oldest first.
func (h *AnnotationHandler) ListUSRs(c *gin.Context) {
	listChildren(c, "usrs", h.annotationService.ListUSRs)
}

// GET /usrs/:id returns the USR with all five collections in index order.
func (h *AnnotationHandler) GetUSR(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, err := h.annotationService.GetUSR(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, doc)
}

func (h *AnnotationHandler) DeleteUSR(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.annotationService.DeleteUSR(dbcOf(c), id)
	respondDeleted(c, rep, err)
}

// replaceKind binds { "entries": [...] } and replaces the USR's collection of that kind.
func replaceKind[T any](c *gin.Context, key string, replace func(dbctx.Context, uint, []*T) ([]*T, error)) {
	if _, ok := requireRole(c, annotatingRoles...); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Entries []*T `json:"entries"`
	}
	if !bindJSON(c, &req) {
		return
	}
	out, err := replace(dbcOf(c), id, req.Entries)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{key: out})
}

// PUT /usrs/:id/lexical
func (h *AnnotationHandler) ReplaceLexical(c *gin.Context) {
	replaceKind[types.LexicalInfo](c, "lexical_info", h.annotationService.ReplaceLexical)
}

// PUT /usrs/:id/dependency
func (h *AnnotationHandler) ReplaceDependency(c *gin.Context) {
	replaceKind[types.DependencyInfo](c, "dependency_info", h.annotationService.ReplaceDependency)
}

// PUT /usrs/:id/discourse
func (h *AnnotationHandler) ReplaceDiscourseCoref(c *gin.Context) {
	replaceKind[types.DiscourseCorefInfo](c, "discourse_coref_info", h.annotationService.ReplaceDiscourseCoref)
}

// PUT /usrs/:id/construction
func (h *AnnotationHandler) ReplaceConstruction(c *gin.Context) {
	replaceKind[types.ConstructionInfo](c, "construction_info", h.annotationService.ReplaceConstruction)
}

// PUT /usrs/:id/sentence-types
func (h *AnnotationHandler) ReplaceSentenceTypes(c *gin.Context) {
	replaceKind[types.SentenceTypeInfo](c, "sentence_type_info", h.annotationService.ReplaceSentenceTypes)
}
