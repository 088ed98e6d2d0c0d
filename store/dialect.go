package store

import (
	"fmt"
	"strings"
)

type Dialect interface {
	Now() string
	TimestampType() string
}

type sqliteDialect struct{}

func (d sqliteDialect) Now() string           { return "(datetime('now','localtime'))" }
func (d sqliteDialect) TimestampType() string { return "TEXT" }

type postgresDialect struct{}

func (d postgresDialect) Now() string           { return "NOW()" }
func (d postgresDialect) TimestampType() string { return "TIMESTAMPTZ" }

// Rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
func Rebind(query string) string {
	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteString(fmt.Sprintf("$%d", n))
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
