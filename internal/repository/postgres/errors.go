package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"rentshare-backend/internal/domain"

	"github.com/lib/pq"
)

// SQLSTATE codes that mean "nothing was committed, try again".
var transientCodes = map[pq.ErrorCode]bool{
	"55P03": true, // lock_not_available (lock_timeout)
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"57014": true, // query_canceled (statement_timeout)
	"53300": true, // too_many_connections
	"08000": true, // connection_exception
	"08003": true, // connection_does_not_exist
	"08006": true, // connection_failure
}

const (
	codeUniqueViolation pq.ErrorCode = "23505"
	codeCheckViolation  pq.ErrorCode = "23514"
)

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && transientCodes[pqErr.Code] {
		return domain.Transient(fmt.Errorf("%s: %w", op, err))
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return domain.Transient(fmt.Errorf("%s: %w", op, err))
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.Transient(fmt.Errorf("%s: %w", op, err))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
