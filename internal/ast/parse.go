package ast

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/xwb1989/sqlparser"
)

// DefaultCacheSize is the façade's default LRU bound (spec.md §4.1: "~1000").
const DefaultCacheSize = 1000

// ParseError is returned in strict mode when the underlying parser rejects
// the SQL text.
type ParseError struct {
	SQL   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable SQL: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// Facade parses SQL to a Statement with a bounded, concurrency-safe cache.
// It is shared by every goroutine using a Validator (spec.md §5):
// correctness does not depend on strict eviction order, so a plain
// hashicorp/golang-lru (internally mutex-guarded) satisfies the contract.
type Facade struct {
	cache   *lru.Cache[string, *Statement]
	lenient bool
}

// New builds a parse façade. cacheSize <= 0 uses DefaultCacheSize.
func New(cacheSize int, lenient bool) *Facade {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	c, err := lru.New[string, *Statement](cacheSize)
	if err != nil {
		// Only possible if cacheSize <= 0, already guarded above.
		panic(err)
	}
	return &Facade{cache: c, lenient: lenient}
}

// Parse returns the cached or freshly parsed Statement for sql. In strict
// mode, a parser failure is returned as *ParseError. In lenient mode, a
// parser failure yields a KindUnknown Statement so that only raw-text
// checkers run against it (spec.md §4.1, §4.3(i)).
func (f *Facade) Parse(sql string) (*Statement, error) {
	if stmt, ok := f.cache.Get(sql); ok {
		return stmt, nil
	}

	parsed, err := sqlparser.Parse(sql)
	if err != nil {
		if !f.lenient {
			return nil, &ParseError{SQL: sql, Cause: err}
		}
		stmt := &Statement{Kind: KindUnknown, RawSQL: sql}
		f.cache.Add(sql, stmt)
		return stmt, nil
	}

	stmt := FromParsed(parsed, sql)
	f.cache.Add(sql, stmt)
	return stmt, nil
}

// Lenient reports whether the façade is configured to tolerate parse
// failures with a KindUnknown sentinel instead of erroring.
func (f *Facade) Lenient() bool { return f.lenient }

// Len reports the current number of cached entries (test/diagnostic use).
func (f *Facade) Len() int { return f.cache.Len() }
