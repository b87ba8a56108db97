// Package mapper provides pure translation between domain records, normalized
// table rows (column name to scalar string) and legacy meta attributes. Each
// record type has a Schema bundling its table name, its static bidirectional
// column-to-meta-key table and its typed codec functions. No I/O happens here.
package mapper

import (
	"fmt"
	"slices"

	"github.com/evermart/ordertables/internal/errors"
	"github.com/evermart/ordertables/internal/order"
)

// Boolean column token values. Legacy meta stores booleans as yes/no strings
// and the normalized tables keep the same representation.
const (
	tokenTrue  = "yes"
	tokenFalse = "no"
)

// Schema describes how one record type maps onto its normalized table and
// its legacy meta keys.
type Schema struct {
	recordType order.RecordType
	table      string
	// metaKeys maps every normalized column to exactly one legacy meta key.
	metaKeys     map[string]string
	newRecord    func(id uint64) order.Record
	toColumns    func(order.Record) (map[string]string, error)
	applyColumns func(order.Record, map[string]string) error
}

// RecordType returns the legacy record type this schema serves.
func (s *Schema) RecordType() order.RecordType { return s.recordType }

// Table returns the normalized table name.
func (s *Schema) Table() string { return s.table }

// Columns returns the normalized column names in sorted order.
func (s *Schema) Columns() []string {
	cols := make([]string, 0, len(s.metaKeys))
	for col := range s.metaKeys {
		cols = append(cols, col)
	}
	slices.Sort(cols)
	return cols
}

// MetaKey returns the legacy meta key for a normalized column.
func (s *Schema) MetaKey(column string) (string, bool) {
	key, ok := s.metaKeys[column]
	return key, ok
}

// New creates a zero-value record of this schema's type.
func (s *Schema) New(id uint64) order.Record {
	return s.newRecord(id)
}

// ToColumns serializes every tracked field of the record into a full column
// mapping. Booleans become yes/no tokens, monetary fields stay decimal strings.
func (s *Schema) ToColumns(rec order.Record) (map[string]string, error) {
	if rec.Type() != s.recordType {
		return nil, schemaTypeError(s, rec)
	}
	return s.toColumns(rec)
}

// FromColumns decodes a column mapping into the record's fields. The caller
// owns the change journal: decoding goes through the setters, so applying a
// row to a freshly created record journals every non-zero column until
// MarkClean establishes the baseline.
func (s *Schema) FromColumns(rec order.Record, cols map[string]string) error {
	if rec.Type() != s.recordType {
		return schemaTypeError(s, rec)
	}
	return s.applyColumns(rec, cols)
}

// ToAttributes serializes the record into legacy meta attributes, keyed by
// the static meta-key table.
func (s *Schema) ToAttributes(rec order.Record) (map[string]string, error) {
	cols, err := s.ToColumns(rec)
	if err != nil {
		return nil, err
	}
	attrs := make(map[string]string, len(cols))
	for col, val := range cols {
		attrs[s.metaKeys[col]] = val
	}
	return attrs, nil
}

// FromAttributes hydrates the record from legacy meta attributes. Attributes
// outside the static mapping are ignored; mapped attributes missing from the
// input leave the corresponding field at its zero value.
func (s *Schema) FromAttributes(rec order.Record, attrs map[string]string) error {
	cols := make(map[string]string, len(s.metaKeys))
	for col, key := range s.metaKeys {
		if val, ok := attrs[key]; ok {
			cols[col] = val
		}
	}
	return s.FromColumns(rec, cols)
}

// Validate checks the mapping table for configuration errors: every column
// must have exactly one meta key and no meta key may serve two columns.
func (s *Schema) Validate() error {
	seen := make(map[string]string, len(s.metaKeys))
	for col, key := range s.metaKeys {
		if key == "" {
			return errors.Newf("column %q of table %q has no legacy meta key", col, s.table).
				Component("mapper").
				Category(errors.CategoryConfiguration).
				Build()
		}
		if other, dup := seen[key]; dup {
			return errors.Newf("meta key %q maps to both %q and %q in table %q", key, other, col, s.table).
				Component("mapper").
				Category(errors.CategoryConfiguration).
				Build()
		}
		seen[key] = col
	}
	return nil
}

// For returns the schema serving the given record type.
func For(t order.RecordType) (*Schema, error) {
	for _, s := range All() {
		if s.recordType == t {
			return s, nil
		}
	}
	return nil, errors.Newf("no schema for record type %q", t).
		Component("mapper").
		Category(errors.CategoryConfiguration).
		Build()
}

// All returns every schema known to the engine, orders first.
func All() []*Schema {
	return []*Schema{Orders(), Refunds()}
}

func schemaTypeError(s *Schema, rec order.Record) error {
	return errors.Newf("record %d has type %q, schema serves %q", rec.ID(), rec.Type(), s.recordType).
		Component("mapper").
		Category(errors.CategoryValidation).
		Build()
}

// boolToToken encodes a logical boolean as its canonical column token.
func boolToToken(b bool) string {
	if b {
		return tokenTrue
	}
	return tokenFalse
}

// tokenToBool decodes the canonical column token back to a boolean. The
// empty string decodes as false to tolerate missing legacy attributes.
func tokenToBool(s string) (bool, error) {
	switch s {
	case tokenTrue:
		return true, nil
	case tokenFalse, "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean token %q", s)
	}
}
