package sqldb

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"

	"github.com/example/chimera/internal/core/catalog"
)

// MySQL server error numbers.
const (
	mysqlErrNoReferencedRow  = 1216
	mysqlErrRowIsReferenced  = 1217
	mysqlErrRowIsReferenced2 = 1451
	mysqlErrNoReferencedRow2 = 1452
	mysqlErrDupEntry         = 1062
	mysqlErrBadNull          = 1048
	mysqlErrCheckViolated    = 3819
	mysqlErrConCount         = 1040
	mysqlErrAccessDenied     = 1045
	mysqlErrBadDB            = 1049
)

// database/sql does not export the error it returns once the pool is closed.
const errPoolClosed = "sql: database is closed"

// classify maps driver errors onto the catalog error types. Errors it does not
// recognize are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlErrRowIsReferenced, mysqlErrRowIsReferenced2, mysqlErrNoReferencedRow, mysqlErrNoReferencedRow2:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintForeignKey, Detail: myErr.Message, Err: err}
		case mysqlErrDupEntry:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintUnique, Detail: myErr.Message, Err: err}
		case mysqlErrBadNull:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintNotNull, Detail: myErr.Message, Err: err}
		case mysqlErrCheckViolated:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintCheck, Detail: myErr.Message, Err: err}
		case mysqlErrConCount, mysqlErrAccessDenied, mysqlErrBadDB:
			return &catalog.ConnectivityError{Err: err}
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintForeignKey, Detail: liteErr.Error(), Err: err}
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintUnique, Detail: liteErr.Error(), Err: err}
		case sqlite3.ErrConstraintNotNull:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintNotNull, Detail: liteErr.Error(), Err: err}
		case sqlite3.ErrConstraintCheck:
			return &catalog.ConstraintViolation{Constraint: catalog.ConstraintCheck, Detail: liteErr.Error(), Err: err}
		}
		if liteErr.Code == sqlite3.ErrCantOpen || liteErr.Code == sqlite3.ErrNotADB {
			return &catalog.ConnectivityError{Err: err}
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, sql.ErrConnDone) ||
		strings.Contains(err.Error(), errPoolClosed) {
		return &catalog.ConnectivityError{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &catalog.ConnectivityError{Err: err}
	}

	return err
}
