package services

import (
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/observability"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
)

// sweep is every id reachable from a delete root, computed before anything is removed.
type sweep struct {
	projectIDs    []uint
	chapterIDs    []uint
	sentenceIDs   []uint
	segmentIDs    []uint
	usrIDs        []uint
	assignmentIDs []uint
}

type cascader struct {
	repos repos.Repos
}

func (c cascader) fromProjects(dbc dbctx.Context, ids []uint) (*sweep, error) {
	chapterIDs, err := c.repos.Chapter.IDsByProjects(dbc, ids)
	if err != nil {
		return nil, err
	}
	sw, err := c.fromChapters(dbc, chapterIDs)
	if err != nil {
		return nil, err
	}
	sw.projectIDs = ids
	return sw, nil
}

func (c cascader) fromChapters(dbc dbctx.Context, ids []uint) (*sweep, error) {
	sentenceIDs, err := c.repos.Sentence.IDsByChapters(dbc, ids)
	if err != nil {
		return nil, err
	}
	sw, err := c.fromSentences(dbc, sentenceIDs)
	if err != nil {
		return nil, err
	}
	sw.chapterIDs = ids
	return sw, nil
}

func (c cascader) fromSentences(dbc dbctx.Context, ids []uint) (*sweep, error) {
	segmentIDs, err := c.repos.Segment.IDsBySentences(dbc, ids)
	if err != nil {
		return nil, err
	}
	sw, err := c.fromSegments(dbc, segmentIDs)
	if err != nil {
		return nil, err
	}
	sw.sentenceIDs = ids
	return sw, nil
}

func (c cascader) fromSegments(dbc dbctx.Context, ids []uint) (*sweep, error) {
	usrIDs, err := c.repos.Annotation.USR.IDsBySegments(dbc, ids)
	if err != nil {
		return nil, err
	}
	assignmentIDs, err := c.repos.Assignment.IDsByUnits(dbc, usrIDs, ids)
	if err != nil {
		return nil, err
	}
	return &sweep{segmentIDs: ids, usrIDs: usrIDs, assignmentIDs: assignmentIDs}, nil
}

// fromUSRs leaves segment-only assignments alone; they belong to the segment.
func (c cascader) fromUSRs(dbc dbctx.Context, ids []uint) (*sweep, error) {
	assignmentIDs, err := c.repos.Assignment.IDsByUnits(dbc, ids, nil)
	if err != nil {
		return nil, err
	}
	return &sweep{usrIDs: ids, assignmentIDs: assignmentIDs}, nil
}

// blocking lists the non-terminal assignments the sweep would destroy.
func (c cascader) blocking(dbc dbctx.Context, sw *sweep) ([]uint, error) {
	return c.repos.Assignment.ActiveIDsByUnits(dbc, sw.usrIDs, sw.segmentIDs)
}

// execute deletes leaves first so no row is ever left pointing at a removed parent.
func (c cascader) execute(dbc dbctx.Context, sw *sweep) (*content.DeleteReport, error) {
	rep := &content.DeleteReport{}
	var err error

	if rep.Events, err = c.repos.Event.DeleteByAssignments(dbc, sw.assignmentIDs); err != nil {
		return nil, err
	}
	if rep.Claims, err = c.repos.Claim.DeleteByAssignments(dbc, sw.assignmentIDs); err != nil {
		return nil, err
	}
	if rep.Assignments, err = c.repos.Assignment.DeleteByIDs(dbc, sw.assignmentIDs); err != nil {
		return nil, err
	}
	if rep.SubAnnotations, err = c.repos.Annotation.DeleteEntries(dbc, sw.usrIDs); err != nil {
		return nil, err
	}
	if rep.USRs, err = c.repos.Annotation.USR.DeleteByIDs(dbc, sw.usrIDs); err != nil {
		return nil, err
	}
	if rep.Segments, err = c.repos.Segment.DeleteByIDs(dbc, sw.segmentIDs); err != nil {
		return nil, err
	}
	if rep.Sentences, err = c.repos.Sentence.DeleteByIDs(dbc, sw.sentenceIDs); err != nil {
		return nil, err
	}
	if rep.Chapters, err = c.repos.Chapter.DeleteByIDs(dbc, sw.chapterIDs); err != nil {
		return nil, err
	}
	if rep.Projects, err = c.repos.Project.DeleteByIDs(dbc, sw.projectIDs); err != nil {
		return nil, err
	}
	return rep, nil
}

func observeReport(rep *content.DeleteReport) {
	if rep == nil {
		return
	}
	observability.ObserveCascadeDelete("project", rep.Projects)
	observability.ObserveCascadeDelete("chapter", rep.Chapters)
	observability.ObserveCascadeDelete("sentence", rep.Sentences)
	observability.ObserveCascadeDelete("segment", rep.Segments)
	observability.ObserveCascadeDelete("usr", rep.USRs)
	observability.ObserveCascadeDelete("sub_annotation", rep.SubAnnotations)
	observability.ObserveCascadeDelete("assignment", rep.Assignments)
}
