package annotation

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/usr-annotation-backend/internal/data/repos/testutil"
	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
)

func TestEntryReplaceKeepsIndexOrder(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	c := testutil.SeedContent(t, ctx, tx)
	usr := testutil.SeedUSR(t, ctx, tx, c.Segment.ID)
	repos := NewRepos(db, testutil.Logger(t))

	if _, err := repos.Dependency.Replace(dbc, usr.ID, []*types.DependencyInfo{
		{Index: 3, Concept: "kara_1", HeadIndex: "0", Relation: "main"},
		{Index: 1, Concept: "rAma", HeadIndex: "3", Relation: "k1"},
		{Index: 2, Concept: "Gara", HeadIndex: "3", Relation: "k7p"},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	rows, err := repos.Dependency.ListByUSR(dbc, usr.ID)
	if err != nil {
		t.Fatalf("ListByUSR: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("ListByUSR: expected 3 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if row.Index != i+1 {
			t.Fatalf("ListByUSR: row %d has index %d", i, row.Index)
		}
		if row.USRID != usr.ID {
			t.Fatalf("ListByUSR: row %d has usr %d", i, row.USRID)
		}
	}

	// A second replace discards the previous collection entirely.
	if _, err := repos.Dependency.Replace(dbc, usr.ID, []*types.DependencyInfo{
		{Index: 1, Concept: "kara_1", Relation: "main"},
	}); err != nil {
		t.Fatalf("Replace again: %v", err)
	}
	rows, err = repos.Dependency.ListByUSR(dbc, usr.ID)
	if err != nil {
		t.Fatalf("ListByUSR: %v", err)
	}
	if len(rows) != 1 || rows[0].Concept != "kara_1" {
		t.Fatalf("ListByUSR after replace: %+v", rows)
	}

	n, err := repos.DeleteEntries(dbc, []uint{usr.ID})
	if err != nil {
		t.Fatalf("DeleteEntries: %v", err)
	}
	if n != 1 {
		t.Fatalf("DeleteEntries: expected 1, got %d", n)
	}
}

func TestUSRLiveness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	c := testutil.SeedContent(t, ctx, tx)
	repo := NewUSRRepo(db, testutil.Logger(t))

	live, err := repo.GetLiveBySegment(dbc, c.Segment.ID)
	if err != nil {
		t.Fatalf("GetLiveBySegment: %v", err)
	}
	if live != nil {
		t.Fatalf("GetLiveBySegment: expected none, got %+v", live)
	}

	first := testutil.SeedUSR(t, ctx, tx, c.Segment.ID)
	live, err = repo.GetLiveBySegment(dbc, c.Segment.ID)
	if err != nil || live == nil || live.ID != first.ID {
		t.Fatalf("GetLiveBySegment: live=%+v err=%v", live, err)
	}

	if err := repo.Supersede(dbc, first.ID, time.Now().UTC()); err != nil {
		t.Fatalf("Supersede: %v", err)
	}
	second, err := repo.Create(dbc, &types.USR{SegmentID: c.Segment.ID, Revision: 2, Status: annotation.StatusPending, Language: "hindi"})
	if err != nil {
		t.Fatalf("Create revision 2: %v", err)
	}
	rev, err := repo.LatestRevision(dbc, c.Segment.ID)
	if err != nil || rev != 2 {
		t.Fatalf("LatestRevision: rev=%d err=%v", rev, err)
	}
	live, err = repo.GetLiveBySegment(dbc, c.Segment.ID)
	if err != nil || live == nil || live.ID != second.ID {
		t.Fatalf("GetLiveBySegment after supersede: live=%+v err=%v", live, err)
	}
}
