// Package txn runs multi-document writes inside a MongoDB transaction.
//
// Transactions require a replica set or mongos. On standalone servers
// (common in dev) the server refuses session/transaction operations; Run
// detects that and falls back to executing the function without a
// transaction so local development still works. Production deployments run
// a replica set, so the atomicity guarantees hold where they matter.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. fn must use the ctx
// it is handed for every operation so the writes join the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			log.Warn("mongo sessions unavailable; running without transaction", zap.Error(err))
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		log.Warn("mongo transactions unavailable; running without transaction", zap.Error(err))
		return fn(ctx)
	}
	return err
}

// Codes the server answers with when sessions/transactions are not
// supported on this topology.
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation (transaction numbers on non-replset)
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions (standalone topology), as opposed to a transaction that
// ran and failed.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return notSupportedCodes[cmdErr.Code]
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }
	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation") && has("transaction"):
		return true
	}
	return false
}
