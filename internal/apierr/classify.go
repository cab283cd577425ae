package apierr

import (
	"database/sql/driver"
	"errors"
	"net"
	"net/http"
	"syscall"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	MsgConnectionFailed  = "Database connection failed"
	MsgAlreadyExists     = "Resource already exists"
	MsgReferenceMissing  = "Referenced resource does not exist"
	MsgInvalidFormat     = "Invalid input format"
	MsgStorageFailedBase = "Internal Server Error"
)

// Storage wraps a storage failure. Known conditions get their own status and
// message, anything else becomes a 500 carrying the generic message given by
// the caller.
func Storage(message string, err error) *Error {
	if err == nil {
		return nil
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if isConnectionError(err) {
		return &Error{Status: http.StatusServiceUnavailable, Message: MsgConnectionFailed, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return &Error{Status: http.StatusConflict, Message: MsgAlreadyExists, Err: err}
		case pgerrcode.ForeignKeyViolation:
			return &Error{Status: http.StatusBadRequest, Message: MsgReferenceMissing, Err: err}
		case pgerrcode.InvalidTextRepresentation:
			return &Error{Status: http.StatusBadRequest, Message: MsgInvalidFormat, Err: err}
		case pgerrcode.CannotConnectNow, pgerrcode.AdminShutdown, pgerrcode.TooManyConnections:
			return &Error{Status: http.StatusServiceUnavailable, Message: MsgConnectionFailed, Err: err}
		}
	}

	if message == "" {
		message = MsgStorageFailedBase
	}
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
