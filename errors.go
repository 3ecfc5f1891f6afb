package sqlbuilder

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

var (
	ErrNoConfig           = errors.New("sqlbuilder: no default config, call Setup first")
	ErrStatementPerformed = errors.New("sqlbuilder: statement already performed")
	ErrNoTransaction      = errors.New("sqlbuilder: no transaction in progress")
	ErrUnknownDialect     = errors.New("sqlbuilder: unknown dialect")
	ErrClosed             = errors.New("sqlbuilder: table handle is closed")
)

// ErrorInfo is what a Table records when a statement fails.
type ErrorInfo struct {
	Statement string
	Err       error
	// Code is the driver's own error code: the SQLSTATE for PostgreSQL, the
	// error number for MySQL and the extended result code for SQLite.
	Code string
}

func newErrorInfo(statement string, err error) *ErrorInfo {
	return &ErrorInfo{Statement: statement, Err: err, Code: driverCode(err)}
}

func (e *ErrorInfo) Error() string {
	if e.Statement == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Statement)
}

func (e *ErrorInfo) Unwrap() error {
	return e.Err
}

// IsUniqueViolation reports whether the statement broke a unique or primary
// key constraint.
func (e *ErrorInfo) IsUniqueViolation() bool {
	if e == nil {
		return false
	}
	var (
		pgErr     *pq.Error
		myErr     *mysql.MySQLError
		sqlite3Er sqlite3.Error
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(e.Err, &pgErr):
		return string(pgErr.Code) == pgerrcode.UniqueViolation
	case errors.As(e.Err, &myErr):
		return myErr.Number == 1062
	case errors.As(e.Err, &sqlite3Er):
		return sqlite3Er.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqlite3Er.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	case errors.As(e.Err, &sqliteErr):
		return sqliteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE ||
			sqliteErr.Code() == sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

func driverCode(err error) string {
	var (
		pgErr     *pq.Error
		myErr     *mysql.MySQLError
		sqlite3Er sqlite3.Error
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pgErr):
		return string(pgErr.Code)
	case errors.As(err, &myErr):
		return strconv.Itoa(int(myErr.Number))
	case errors.As(err, &sqlite3Er):
		return strconv.Itoa(int(sqlite3Er.ExtendedCode))
	case errors.As(err, &sqliteErr):
		return strconv.Itoa(sqliteErr.Code())
	}
	return ""
}
