package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos/testutil"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	apperrors "github.com/yungbote/usr-annotation-backend/internal/pkg/errors"
)

func TestValidateEntriesReportsEveryIssue(t *testing.T) {
	rows := []*types.DependencyInfo{
		{Index: 1, Concept: "rAma", HeadIndex: "3", Relation: "k1"},
		{Index: 1, Concept: "KAnA_1", HeadIndex: "3", Relation: "k2"},
		{Index: 3, Concept: "KA_1", HeadIndex: "0", Relation: "main"},
		{Index: 0, Concept: "", HeadIndex: "9", Relation: "k7"},
		{Index: 5, Concept: "x", HeadIndex: "five", Relation: "r6"},
		{Index: 6, Concept: "y", HeadIndex: "6", Relation: "r6"},
	}
	err := ValidateEntries(annotation.KindDependency, rows, func(r *types.DependencyInfo) []string {
		if blank(r.Concept) {
			return []string{"concept"}
		}
		return nil
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	// duplicate index, index 0, missing concept, unresolved 9, non-numeric, self reference
	require.Len(t, ve.Issues, 6, "issues: %v", ve.Issues)
}

func TestValidateEntriesAcceptsSentinels(t *testing.T) {
	for _, ref := range []string{"", "0", "-", "root", "ROOT"} {
		rows := []*types.ConstructionInfo{
			{Index: 1, Concept: "[conj_1]", CxnIndex: ref, ComponentType: "op1"},
			{Index: 2, Concept: "rAma", CxnIndex: "1", ComponentType: "op2"},
		}
		require.NoError(t, ValidateEntries(annotation.KindConstruction, rows, nil), "ref %q", ref)
	}
}

func TestCreateUSRRevisions(t *testing.T) {
	h := newHarness(t)
	c := testutil.SeedContent(t, h.ctx, h.db)

	first, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{SentenceType: "affirmative"})
	require.NoError(t, err)
	require.Equal(t, 1, first.Revision)
	require.Equal(t, "hindi", first.Language)
	require.Equal(t, annotation.StatusPending, first.Status)

	_, err = h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	second, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{NewRevision: true})
	require.NoError(t, err)
	require.Equal(t, 2, second.Revision)

	old, err := h.annotations.GetUSR(h.dbc(), first.ID)
	require.NoError(t, err)
	require.NotNil(t, old.USR.SupersededAt)

	_, err = h.annotations.ReplaceLexical(h.dbc(), first.ID, []*types.LexicalInfo{{Index: 1, Concept: "rAma"}})
	require.ErrorIs(t, err, apperrors.ErrConflict)

	list, err := h.annotations.ListUSRs(h.dbc(), c.Segment.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = h.annotations.CreateUSR(h.dbc(), 999999, USRInput{})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReplaceEntriesReadBackInIndexOrder(t *testing.T) {
	h := newHarness(t)
	_, usr := h.liveUSR(t)

	_, err := h.annotations.ReplaceDependency(h.dbc(), usr.ID, []*types.DependencyInfo{
		{Index: 3, Concept: "KA_1-yA_1", HeadIndex: "0", Relation: "main"},
		{Index: 1, Concept: "rAma", HeadIndex: "3", Relation: "k1"},
		{Index: 2, Concept: "KAnA_1", HeadIndex: "3", Relation: "k2"},
	})
	require.NoError(t, err)
	_, err = h.annotations.ReplaceLexical(h.dbc(), usr.ID, []*types.LexicalInfo{
		{Index: 2, Concept: "KAnA_1"},
		{Index: 1, Concept: "rAma", SemanticCategory: "per"},
	})
	require.NoError(t, err)
	_, err = h.annotations.ReplaceSentenceTypes(h.dbc(), usr.ID, []*types.SentenceTypeInfo{{Index: 1, SentenceType: "affirmative"}})
	require.NoError(t, err)
	_, err = h.annotations.ReplaceDiscourseCoref(h.dbc(), usr.ID, []*types.DiscourseCorefInfo{{Index: 1, Concept: "rAma", HeadIndex: "-", Relation: "coref"}})
	require.NoError(t, err)

	// A failing batch leaves the stored collection untouched.
	_, err = h.annotations.ReplaceDependency(h.dbc(), usr.ID, []*types.DependencyInfo{
		{Index: 1, Concept: "rAma", HeadIndex: "4", Relation: "k1"},
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	doc, err := h.annotations.GetUSR(h.dbc(), usr.ID)
	require.NoError(t, err)
	require.Len(t, doc.Dependency, 3)
	for i, d := range doc.Dependency {
		require.Equal(t, i+1, d.Index)
	}
	require.Equal(t, "rAma", doc.Lexical[0].Concept)
	require.Equal(t, "per", doc.Lexical[0].SemanticCategory)
	require.Len(t, doc.SentenceTypes, 1)
	require.Len(t, doc.DiscourseCoref, 1)
	require.Empty(t, doc.Construction)

	_, err = h.annotations.ReplaceLexical(h.dbc(), usr.ID, nil)
	require.NoError(t, err)
	doc, err = h.annotations.GetUSR(h.dbc(), usr.ID)
	require.NoError(t, err)
	require.Empty(t, doc.Lexical)
}

func TestDeleteUSRKeepsSegmentWork(t *testing.T) {
	h := newHarness(t)
	c, usr := h.liveUSR(t)
	onUSR, err := h.assignments.Create(h.dbc(), h.admin.Actor(), CreateAssignmentInput{
		USRID:       &usr.ID,
		AnnotatorID: h.annotator.ID,
		Subtasks:    lexical(),
	})
	require.NoError(t, err)
	onSegment, err := h.assignments.Create(h.dbc(), h.admin.Actor(), CreateAssignmentInput{
		SegmentID:   &c.Segment.ID,
		AnnotatorID: h.annotator2.ID,
		Subtasks:    lexical(),
	})
	require.NoError(t, err)

	rep, err := h.annotations.DeleteUSR(h.dbc(), usr.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, rep.USRs)
	require.EqualValues(t, 1, rep.Assignments)

	_, err = h.assignments.Get(h.dbc(), onUSR.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = h.assignments.Get(h.dbc(), onSegment.ID)
	require.NoError(t, err)
}

func TestCreateUSRPicksUpSegmentWorkInFlight(t *testing.T) {
	h := newHarness(t)
	c := testutil.SeedContent(t, h.ctx, h.db)
	admin, ann := h.admin.Actor(), h.annotator.Actor()

	a, err := h.assignments.Create(h.dbc(), admin, CreateAssignmentInput{
		SegmentID:   &c.Segment.ID,
		AnnotatorID: h.annotator.ID,
		Subtasks:    assignment.SubtasksOf(assignment.SubtaskLexical),
	})
	require.NoError(t, err)
	_, err = h.assignments.Start(h.dbc(), ann, a.ID)
	require.NoError(t, err)

	first, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{})
	require.NoError(t, err)
	require.Equal(t, annotation.StatusInProgress, first.Status)
	require.Equal(t, string(annotation.StatusInProgress), h.usrStatus(t, first.ID))

	second, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{NewRevision: true})
	require.NoError(t, err)
	require.Equal(t, annotation.StatusInProgress, second.Status)
	require.Equal(t, string(annotation.StatusInProgress), h.usrStatus(t, second.ID))
}

func TestApprovedSegmentWorkStaysWithItsRevision(t *testing.T) {
	h := newHarness(t)
	c, usr := h.liveUSR(t)
	admin, ann, rev := h.admin.Actor(), h.annotator.Actor(), h.reviewer.Actor()

	a, err := h.assignments.Create(h.dbc(), admin, CreateAssignmentInput{
		SegmentID:   &c.Segment.ID,
		AnnotatorID: h.annotator.ID,
		Subtasks:    assignment.SubtasksOf(assignment.SubtaskLexical),
	})
	require.NoError(t, err)
	_, err = h.assignments.Start(h.dbc(), ann, a.ID)
	require.NoError(t, err)
	_, err = h.assignments.Submit(h.dbc(), ann, a.ID)
	require.NoError(t, err)
	_, err = h.assignments.AssignReviewer(h.dbc(), rev, a.ID, nil)
	require.NoError(t, err)
	a, err = h.assignments.Approve(h.dbc(), rev, a.ID)
	require.NoError(t, err)
	require.NotNil(t, a.USRID)
	require.Equal(t, usr.ID, *a.USRID)
	require.Equal(t, string(annotation.StatusReviewed), h.usrStatus(t, usr.ID))

	next, err := h.annotations.CreateUSR(h.dbc(), c.Segment.ID, USRInput{})
	require.NoError(t, err)
	require.Equal(t, annotation.StatusPending, next.Status)
	require.Equal(t, string(annotation.StatusReviewed), h.usrStatus(t, usr.ID))
}
