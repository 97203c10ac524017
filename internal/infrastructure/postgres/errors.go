package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/vidtube-api/pkg/apperror"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
	invalidTextRepr     = "22P02"
)

// mapErr translates driver errors into application errors for resource/id.
func mapErr(err error, resource, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(resource, id)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return &apperror.AppError{Err: apperror.ErrConflict, Message: conflictMessage(resource, pgErr), Cause: err}
		case foreignKeyViolation:
			return &apperror.AppError{Err: apperror.ErrNotFound, Message: "referenced record does not exist", Cause: err}
		case checkViolation:
			return &apperror.AppError{Err: apperror.ErrValidation, Message: "invalid " + resource, Field: pgErr.ConstraintName, Cause: err}
		case invalidTextRepr:
			return &apperror.AppError{Err: apperror.ErrValidation, Message: "invalid identifier", Cause: err}
		}
	}
	return fmt.Errorf("%s %s: %w", resource, id, err)
}

func conflictMessage(resource string, pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "users_username_key":
		return "username already exists"
	case "users_email_key":
		return "email already exists"
	}
	return resource + " already exists"
}

// likePattern escapes LIKE metacharacters and wraps s for substring matching.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
