package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/usr-annotation-backend/internal/pkg/ctxutil"
	"github.com/yungbote/usr-annotation-backend/internal/pkg/dbctx"
)

// inTx runs fn inside the caller's transaction when there is one, otherwise
// inside a fresh transaction on db.
func inTx(db *gorm.DB, dbc dbctx.Context, fn func(inner dbctx.Context) error) error {
	ctx := ctxutil.Default(dbc.Ctx)
	if dbc.Tx != nil {
		return fn(dbctx.Context{Ctx: ctx, Tx: dbc.Tx})
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// read runs fn against the caller's transaction or the base handle.
func read(dbc dbctx.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctxutil.Default(dbc.Ctx), Tx: dbc.Tx}
}

func ctxOf(dbc dbctx.Context) context.Context { return ctxutil.Default(dbc.Ctx) }
