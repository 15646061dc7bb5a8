package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDListScanValue(t *testing.T) {
	v, err := IDList{3, 1, 2}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[3,1,2]", v)

	var l IDList
	require.NoError(t, l.Scan([]byte("[3,1,2]")))
	assert.Equal(t, IDList{3, 1, 2}, l)

	require.NoError(t, l.Scan(nil))
	assert.Empty(t, l)

	require.NoError(t, l.Scan(""))
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
	assert.Error(t, l.Scan("{"))

	nilValue, err := IDList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)
}

func TestIDListMarshalNil(t *testing.T) {
	b, err := json.Marshal(struct {
		IDs IDList `json:"ids"`
	}{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ids":[]}`, string(b))
}

func TestIDListWithout(t *testing.T) {
	l := IDList{1, 2, 3, 2}
	out := l.Without(2)
	assert.Equal(t, IDList{1, 3}, out)
	assert.Equal(t, IDList{1, 2, 3, 2}, l, "original list must be untouched")
	assert.False(t, out.Contains(2))
	assert.True(t, out.Contains(3))
}

func TestIDListPage(t *testing.T) {
	var l IDList
	for i := uint(1); i <= 23; i++ {
		l = append(l, i)
	}

	tests := []struct {
		name       string
		page       int
		wantFirst  uint
		wantLen    int
		wantTotals int
	}{
		{"first page", 1, 1, 10, 3},
		{"second page", 2, 11, 10, 3},
		{"last partial page", 3, 21, 3, 3},
		{"past the end", 4, 0, 0, 3},
		{"zero treated as first", 0, 1, 10, 3},
		{"huge page", 1_000_000_000_000_000_000, 0, 0, 3},
		{"max int page", math.MaxInt, 0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := l.Page(tt.page, 10)
			assert.Equal(t, tt.wantTotals, total)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, got[0])
			}
		})
	}

	empty, total := IDList{}.Page(1, 10)
	assert.Empty(t, empty)
	assert.Equal(t, 0, total)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@x.com", NormalizeEmail("  Alice@X.com "))
}
