package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	types "github.com/yungbote/usr-annotation-backend/internal/domain"
	"github.com/yungbote/usr-annotation-backend/internal/domain/annotation"
	"github.com/yungbote/usr-annotation-backend/internal/domain/assignment"
	"github.com/yungbote/usr-annotation-backend/internal/domain/content"
	"github.com/yungbote/usr-annotation-backend/internal/domain/user"
)

var seq atomic.Int64

// UniqueEmail keeps seeded users distinct when tests share a Postgres database.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s+%d@example.com", prefix, seq.Add(1))
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, role user.Role) *types.User {
	tb.Helper()
	u := &types.User{
		Name:         string(role),
		Email:        UniqueEmail(string(role)),
		PasswordHash: "x",
		Role:         role,
		Status:       user.StatusActive,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// Content is a seeded Project → Chapter → Sentence → Segment chain.
type Content struct {
	Project  *types.Project
	Chapter  *types.Chapter
	Sentence *types.Sentence
	Segment  *types.Segment
}

func SeedContent(tb testing.TB, ctx context.Context, tx *gorm.DB) Content {
	tb.Helper()
	p := &types.Project{Title: "Geo", Language: content.DefaultLanguage}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	c := &types.Chapter{ProjectID: p.ID, Title: "ch3", Language: content.DefaultLanguage}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	s := &types.Sentence{ChapterID: c.ID, Text: "sentence", ExternalID: "Geo_nios_3ch_0002", Language: content.DefaultLanguage}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed sentence: %v", err)
	}
	seg := SeedSegment(tb, ctx, tx, s.ID)
	return Content{Project: p, Chapter: c, Sentence: s, Segment: seg}
}

func SeedSegment(tb testing.TB, ctx context.Context, tx *gorm.DB, sentenceID uint) *types.Segment {
	tb.Helper()
	seg := &types.Segment{SentenceID: sentenceID, Text: "segment", Language: content.DefaultLanguage}
	if err := tx.WithContext(ctx).Create(seg).Error; err != nil {
		tb.Fatalf("seed segment: %v", err)
	}
	return seg
}

func SeedUSR(tb testing.TB, ctx context.Context, tx *gorm.DB, segmentID uint) *types.USR {
	tb.Helper()
	u := &types.USR{SegmentID: segmentID, Revision: 1, Status: annotation.StatusPending, Language: content.DefaultLanguage}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed usr: %v", err)
	}
	return u
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, usrID, annotatorID uint, status assignment.Status) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{USRID: &usrID, AnnotatorID: annotatorID, AnnotationStatus: status, AssignLexical: true}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}
