package infra

import (
	"errors"
	"log/slog"

	"omiam-waitlist/internal/pkg/errs"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr logs the failure once at the infra boundary and classifies it.
func WrapRepoErr(logger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{slog.String("kind", string(kind))}
	if err != nil {
		logArgs = append(logArgs, slog.Any("error", err))
		err = errs.Wrap(err, msg)
	}
	logger.Error("Repository error: "+msg, logArgs...)

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

const (
	KindDBFailure RepositoryErrorKind = "DB_FAILURE"
	KindSchema    RepositoryErrorKind = "SCHEMA"
	KindDecode    RepositoryErrorKind = "DECODE"
	KindBroker    RepositoryErrorKind = "BROKER"
)
