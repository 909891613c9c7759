package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos run against Tx when it is set and fall back to their base handle otherwise.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Handle returns the transaction when present, else base, bound to Ctx.
func (c Context) Handle(base *gorm.DB) *gorm.DB {
	h := c.Tx
	if h == nil {
		h = base
	}
	if c.Ctx != nil {
		return h.WithContext(c.Ctx)
	}
	return h
}

// WithTx returns a copy of c that runs against tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}
