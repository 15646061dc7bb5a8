package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// IDList is an ordered list of record ids persisted as a JSON array column.
type IDList []uint

// Value implements driver.Valuer.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *IDList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = IDList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("IDList: unsupported source type %T", src)
	}
	if len(raw) == 0 {
		*l = IDList{}
		return nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return fmt.Errorf("IDList: %w", err)
	}
	*l = ids
	return nil
}

// MarshalJSON renders a nil list as [] rather than null.
func (l IDList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]uint(l))
}

// Contains reports whether id is in the list.
func (l IDList) Contains(id uint) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Without returns a copy of the list with every occurrence of id removed.
func (l IDList) Without(id uint) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// Page returns the 1-indexed page of ids for the given page size and the total page count.
// Pages past the end yield an empty slice.
func (l IDList) Page(page, size int) (IDList, int) {
	if size <= 0 {
		size = 10
	}
	if page < 1 {
		page = 1
	}
	totalPages := (len(l) + size - 1) / size
	if page > totalPages {
		return IDList{}, totalPages
	}
	start := (page - 1) * size
	end := start + size
	if end > len(l) {
		end = len(l)
	}
	return append(IDList{}, l[start:end]...), totalPages
}
