package repository

import (
	"context"
	"errors"

	"smart-parking/internal/infra"
	"smart-parking/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"
	codeSerializationFail  = "40001"
	codeDeadlockDetected   = "40P01"
)

// classify maps driver-level failures onto repository error kinds. Exclusion
// violations come from the booking overlap constraint and are logical
// conflicts; serialization failures and deadlocks are transient and safe to
// retry.
func classify(msg string, err error) error {
	switch {
	case err == nil:
		return nil
	case pgconv.IsNoRows(err):
		return infra.WrapRepoErr(msg, err, infra.KindNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return infra.WrapRepoErr(msg, err, infra.KindTimeout)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case codeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case codeSerializationFail, codeDeadlockDetected:
			return infra.WrapRepoErr(msg, err, infra.KindSerialization)
		}
	}

	return infra.WrapRepoErr(msg, err)
}
