// Package repository provides data access interfaces and implementations
// for the dashboard service.
//
// Repositories follow the repository pattern to abstract persistence from
// business logic. Implementations are safe for concurrent use; the
// underlying pgxpool handles connection pooling and synchronization.
//
// Database errors are wrapped with context using fmt.Errorf with the %w
// verb; callers match them with errors.Is against the domain sentinels.
package repository

import (
	"github.com/sbk-labs/dashboard-service/internal/database"
)

// DBTX is the database interface supporting both pool and transaction
// contexts. Repositories accept it in their constructors, so a
// transactional instance can be built by passing a pgx.Tx instead of the
// pool:
//
//	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
//	    txRepo := repository.NewPgArticleRepository(tx)
//	    _, err := txRepo.List(ctx)
//	    return err
//	})
type DBTX = database.DBTX
