package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/http/response"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
	"github.com/yungbote/usr-annotation-backend/internal/services"
)

// ContentHandler exposes the project/chapter/sentence/segment tree.
// Reads need any authenticated caller; writes are admin-only.
type ContentHandler struct {
	contentService services.ContentService
}

func NewContentHandler(contentService services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func forceParam(c *gin.Context) bool {
	force, _ := strconv.ParseBool(c.Query("force"))
	return force
}

func respondDeleted(c *gin.Context, rep *content.DeleteReport, err error) {
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": rep, "total": rep.Total()})
}

// createChild binds a new node, stamps its parent id from the path and creates it.
func createChild[T any](c *gin.Context, key, parentParam string, setParent func(*T, uint), create func(dbctx.Context, *T) (*T, error)) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var parentID uint
	if parentParam != "" {
		id, ok := pathID(c, parentParam)
		if !ok {
			return
		}
		parentID = id
	}
	var req T
	if !bindJSON(c, &req) {
		return
	}
	if setParent != nil {
		setParent(&req, parentID)
	}
	out, err := create(dbcOf(c), &req)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{key: out})
}

func getOne[T any](c *gin.Context, key string, get func(dbctx.Context, uint) (T, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := get(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{key: out})
}

func listChildren[T any](c *gin.Context, key string, list func(dbctx.Context, uint) ([]T, error)) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := list(dbcOf(c), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{key: out})
}

func patchOne[T any](c *gin.Context, key string, update func(dbctx.Context, uint, services.ContentPatch) (T, error)) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch services.ContentPatch
	if !bindJSON(c, &patch) {
		return
	}
	out, err := update(dbcOf(c), id, patch)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{key: out})
}

// POST /projects
func (h *ContentHandler) CreateProject(c *gin.Context) {
	createChild[types.Project](c, "project", "", nil, h.contentService.CreateProject)
}

// GET /projects
func (h *ContentHandler) ListProjects(c *gin.Context) {
	out, err := h.contentService.ListProjects(dbcOf(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"projects": out})
}

func (h *ContentHandler) GetProject(c *gin.Context) {
	getOne(c, "project", h.contentService.GetProject)
}

func (h *ContentHandler) UpdateProject(c *gin.Context) {
	patchOne(c, "project", h.contentService.UpdateProject)
}

// DELETE /projects/:id?force=true
func (h *ContentHandler) DeleteProject(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.contentService.DeleteProject(dbcOf(c), id, forceParam(c))
	respondDeleted(c, rep, err)
}

// POST /projects/:id/chapters
func (h *ContentHandler) CreateChapter(c *gin.Context) {
	createChild(c, "chapter", "id", func(ch *types.Chapter, parent uint) { ch.ProjectID = parent }, h.contentService.CreateChapter)
}

func (h *ContentHandler) ListChapters(c *gin.Context) {
	listChildren(c, "chapters", h.contentService.ListChapters)
}

func (h *ContentHandler) GetChapter(c *gin.Context) {
	getOne(c, "chapter", h.contentService.GetChapter)
}

func (h *ContentHandler) UpdateChapter(c *gin.Context) {
	patchOne(c, "chapter", h.contentService.UpdateChapter)
}

func (h *ContentHandler) DeleteChapter(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.contentService.DeleteChapter(dbcOf(c), id, forceParam(c))
	respondDeleted(c, rep, err)
}

// POST /chapters/:id/sentences
func (h *ContentHandler) CreateSentence(c *gin.Context) {
	createChild(c, "sentence", "id", func(s *types.Sentence, parent uint) { s.ChapterID = parent }, h.contentService.CreateSentence)
}

func (h *ContentHandler) ListSentences(c *gin.Context) {
	listChildren(c, "sentences", h.contentService.ListSentences)
}

func (h *ContentHandler) GetSentence(c *gin.Context) {
	getOne(c, "sentence", h.contentService.GetSentence)
}

// GET /sentences?external_id=Geo_nios_3ch_0002
func (h *ContentHandler) GetSentenceByExternalID(c *gin.Context) {
	out, err := h.contentService.GetSentenceByExternalID(dbcOf(c), c.Query("external_id"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sentence": out})
}

func (h *ContentHandler) UpdateSentence(c *gin.Context) {
	patchOne(c, "sentence", h.contentService.UpdateSentence)
}

func (h *ContentHandler) DeleteSentence(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.contentService.DeleteSentence(dbcOf(c), id, forceParam(c))
	respondDeleted(c, rep, err)
}

// POST /sentences/:id/segments
func (h *ContentHandler) CreateSegment(c *gin.Context) {
	createChild(c, "segment", "id", func(s *types.Segment, parent uint) { s.SentenceID = parent }, h.contentService.CreateSegment)
}

func (h *ContentHandler) ListSegments(c *gin.Context) {
	listChildren(c, "segments", h.contentService.ListSegments)
}

func (h *ContentHandler) GetSegment(c *gin.Context) {
	getOne(c, "segment", h.contentService.GetSegment)
}

func (h *ContentHandler) UpdateSegment(c *gin.Context) {
	patchOne(c, "segment", h.contentService.UpdateSegment)
}

// DELETE /segments/:id always cascades.
func (h *ContentHandler) DeleteSegment(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rep, err := h.contentService.DeleteSegment(dbcOf(c), id)
	respondDeleted(c, rep, err)
}
