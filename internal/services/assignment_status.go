package services

import (
	"fmt"

	dbpkg "github.com/yungbote/usr-annotation-backend/internal/data/db"
	"github.com/yungbote/usr-annotation-backend/internal/data/repos"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
)

// USRStatusFor derives a USR's status from the assignments covering it.
// The most advanced piece of work wins.
func USRStatusFor(covering []*types.Assignment) annotation.Status {
	var (
		started     int
		inReview    bool
		rework      bool
		working     bool
		allApproved = true
	)
	for _, a := range covering {
		if a == nil {
			continue
		}
		if a.AnnotationStatus == assignment.StatusUnassigned {
			// Held work keeps the USR short of Reviewed without starting it.
			allApproved = false
			continue
		}
		started++
		switch a.AnnotationStatus {
		case assignment.StatusInReview:
			inReview = true
		case assignment.StatusAssigned, assignment.StatusInProgress:
			working = true
		}
		if a.NeedsRework && a.AnnotationStatus != assignment.StatusApproved {
			rework = true
		}
		if a.AnnotationStatus != assignment.StatusApproved {
			allApproved = false
		}
	}
	switch {
	case started == 0:
		return annotation.StatusPending
	case inReview:
		return annotation.StatusUnderReview
	case rework:
		return annotation.StatusRejected
	case working:
		return annotation.StatusInProgress
	case allApproved:
		return annotation.StatusReviewed
	default:
		return annotation.StatusAnnotated
	}
}

// propagateUSRStatus recomputes the status of the USR an assignment covers
// inside the caller's transaction. A segment-only assignment covers the
// segment's live USR, if it has one.
func propagateUSRStatus(dbc dbctx.Context, r repos.Repos, a *types.Assignment, box *outbox) error {
	var usr *types.USR
	var err error
	switch {
	case a.USRID != nil:
		usr, err = r.Annotation.USR.LockByID(dbc, *a.USRID)
	case a.SegmentID != nil:
		usr, err = r.Annotation.USR.GetLiveBySegment(dbc, *a.SegmentID)
	}
	if err != nil || usr == nil {
		return err
	}
	return refreshUSRStatus(dbc, r, usr, box)
}

// refreshUSRStatus derives usr's status from its covering assignments and
// persists it, updating usr in place.
func refreshUSRStatus(dbc dbctx.Context, r repos.Repos, usr *types.USR, box *outbox) error {
	var segmentID uint
	if usr.Live() {
		segmentID = usr.SegmentID
	}
	covering, err := r.Assignment.ListCovering(dbc, usr.ID, segmentID)
	if err != nil {
		return err
	}
	next := USRStatusFor(covering)
	if next == usr.Status {
		return nil
	}
	if err := r.Annotation.USR.UpdateStatus(dbc, usr.ID, next); err != nil {
		return dbpkg.TranslateError(err, fmt.Sprintf("segment %d already has a live usr", usr.SegmentID))
	}
	if box != nil {
		box.usrStatus(usr.ID, usr.Status, next)
	}
	usr.Status = next
	return nil
}
