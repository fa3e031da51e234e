package query

/*
	Description:
		Package `query` wraps https://github.com/mongodb/mongo-go-driver with the handful of
		calls the repositories need, adding slow query logging and an optional COLLSCAN guard.
		https://godoc.org/go.mongodb.org/mongo-driver/mongo
*/

import (
	"fmt"

	"github.com/x-xyz/listings/base/ctx"
	"github.com/x-xyz/listings/domain"
)

var (
	// ErrNotFound is mongo document not found error
	ErrNotFound = fmt.Errorf("document not found")

	// ErrDuplicateKey is an error when violating unique index
	ErrDuplicateKey = fmt.Errorf("duplicate key")

	// ErrCollScan is error for unindexed query
	ErrCollScan = fmt.Errorf("COLLSCAN is not allowed")
)

// Mongo is the interface of query
type Mongo interface {
	// Insert inserts one document, ErrDuplicateKey is returned on unique index violation
	Insert(context ctx.Ctx, table domain.Table, insert interface{}) error

	// FindOne decodes the first document matching query into result
	FindOne(context ctx.Ctx, table domain.Table, query, result interface{}) error

	Count(context ctx.Ctx, table domain.Table, selector interface{}) (int, error)

	// Search finds documents matching query. sort is a field name, prefixed with "-" for descending.
	// limit 0 means no limit.
	Search(context ctx.Ctx, table domain.Table, offset, limit int, sort string, query, results interface{}) error

	// Upsert replaces the document matching selector, inserting it if absent
	Upsert(context ctx.Ctx, table domain.Table, selector, update interface{}) error

	RemoveAll(context ctx.Ctx, table domain.Table, selector interface{}) (int64, error)

	// EnsureIndexes creates the missing indexes of table, existing ones are left untouched
	EnsureIndexes(context ctx.Ctx, table domain.Table, indexes ...Index) error
}

// Index lists its keys in order, a "-" prefix makes a key descending
type Index struct {
	Keys   []string
	Unique bool
}
