package database

import (
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError reports that no session could be established. It is
// fatal to the calling operation and never retried.
type ConnectionError struct {
	Provider string
	Target   string
	Reason   string
	Err      error
}

func (e *ConnectionError) Error() string {
	msg := fmt.Sprintf("failed to connect to %s database at %s", e.Provider, e.Target)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

const (
	reasonUnreachable = "server unreachable"
	reasonCredentials = "credentials rejected"
	reasonUnknownDB   = "database does not exist"
)

// connectionReason gives a short classification of a connect/ping failure.
func connectionReason(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgerrcode.IsInvalidAuthorizationSpecification(pgErr.Code):
			return reasonCredentials
		case pgErr.Code == pgerrcode.InvalidCatalogName:
			return reasonUnknownDB
		case pgerrcode.IsConnectionException(pgErr.Code):
			return reasonUnreachable
		}
		return ""
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1045, 1044:
			return reasonCredentials
		case 1049:
			return reasonUnknownDB
		}
		return ""
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return reasonUnreachable
	}
	return ""
}
