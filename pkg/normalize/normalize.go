// Package normalize makes backend field naming consistent before display.
package normalize

import (
	"strings"

	"github.com/veya/analytics-dashboard/pkg/models/domain"
)

// Keys returns a copy of r with every top-level key lower-cased. Nested values
// are left untouched. When two keys collide the later value wins and the key
// keeps the position of its first occurrence.
func Keys(r domain.Record) domain.Record {
	out := domain.NewRecord()
	for _, f := range r.Fields() {
		out.Set(strings.ToLower(f.Key), f.Value)
	}
	return out
}

// Rows applies Keys to every record.
func Rows(rows []domain.Record) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, r := range rows {
		out[i] = Keys(r)
	}
	return out
}
