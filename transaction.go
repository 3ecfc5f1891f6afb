package sqlbuilder

import (
	"context"
	"fmt"
)

// TransactionScope is one level of a transaction. The outermost scope owns a
// real transaction, nested scopes are savepoints inside it.
//
// Release commits when no statement failed since Begin and rolls back
// otherwise. Rolling back a savepoint also forgets its failures, so an outer
// scope still commits its own work.
type TransactionScope struct {
	t         *Table
	savepoint string
	failures  int
	broken    bool
	released  bool
}

// Begin starts a transaction, or a savepoint when one is already running.
func (t *Table) Begin() *TransactionScope {
	scope := &TransactionScope{t: t, failures: t.failures}
	if t.conn == nil {
		t.record("BEGIN", ErrClosed)
		scope.broken = true
		return scope
	}
	if t.tx == nil {
		if QueryLoggingEnabled() {
			t.logger.Debugf("BEGIN")
		}
		// database/sql rolls the transaction back when its context ends, so
		// Config.Timeout does not apply here.
		tx, err := t.conn.BeginTx(context.Background(), nil)
		if err != nil {
			t.record("BEGIN", err)
			scope.broken = true
			return scope
		}
		t.tx = tx
		t.depth = 1
		return scope
	}
	scope.savepoint = fmt.Sprintf("sqlbuilder_sp_%d", t.depth)
	if err := t.control("SAVEPOINT " + scope.savepoint); err != nil {
		t.record("SAVEPOINT "+scope.savepoint, err)
		scope.broken = true
		return scope
	}
	t.depth++
	return scope
}

// Release ends the scope and reports whether its work was kept.
func (s *TransactionScope) Release() bool {
	t := s.t
	if s.broken {
		s.released = true
		return false
	}
	if s.released || t.tx == nil {
		t.record("", ErrNoTransaction)
		return false
	}
	s.released = true
	t.depth--
	clean := t.failures == s.failures

	if s.savepoint == "" {
		tx := t.tx
		t.tx = nil
		t.depth = 0
		if QueryLoggingEnabled() {
			if clean {
				t.logger.Debugf("COMMIT")
			} else {
				t.logger.Debugf("ROLLBACK")
			}
		}
		if !clean {
			if err := tx.Rollback(); err != nil {
				t.logger.Errorf("rollback on %s: %s", t.name, err)
			}
			return false
		}
		if err := tx.Commit(); err != nil {
			t.record("COMMIT", err)
			return false
		}
		return true
	}

	if clean {
		if err := t.control("RELEASE SAVEPOINT " + s.savepoint); err != nil {
			t.record("RELEASE SAVEPOINT "+s.savepoint, err)
			return false
		}
		return true
	}
	if err := t.control("ROLLBACK TO SAVEPOINT " + s.savepoint); err != nil {
		t.logger.Errorf("rollback to %s on %s: %s", s.savepoint, t.name, err)
		return false
	}
	if err := t.control("RELEASE SAVEPOINT " + s.savepoint); err != nil {
		t.logger.Errorf("release %s on %s: %s", s.savepoint, t.name, err)
	}
	t.failures = s.failures
	return false
}

// Transact runs fn inside a scope and reports whether it was committed. A
// panic in fn rolls the scope back and is re-raised.
func (t *Table) Transact(fn func()) bool {
	scope := t.Begin()
	defer func() {
		if r := recover(); r != nil {
			t.failures++
			scope.Release()
			panic(r)
		}
	}()
	fn()
	return scope.Release()
}
