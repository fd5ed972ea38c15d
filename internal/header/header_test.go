package header_test

import (
	"net/http"
	"testing"

	"github.com/dukerupert/postmark-transport/internal/domain"
	"github.com/dukerupert/postmark-transport/internal/header"
	"github.com/dukerupert/postmark-transport/internal/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []message.Header
	}{
		{
			name: "absent",
			in:   nil,
			want: nil,
		},
		{
			name: "single string map",
			in:   map[string]string{"X-Key": "v"},
			want: []message.Header{{Name: "X-Key", Value: "v"}},
		},
		{
			name: "map walked in sorted key order",
			in:   map[string]string{"X-B": "2", "X-A": "1"},
			want: []message.Header{{Name: "X-A", Value: "1"}, {Name: "X-B", Value: "2"}},
		},
		{
			name: "multi-valued entry emits one header per value",
			in:   map[string]any{"X-Multi": []any{"a", "b"}, "X-One": "z"},
			want: []message.Header{
				{Name: "X-Multi", Value: "a"},
				{Name: "X-Multi", Value: "b"},
				{Name: "X-One", Value: "z"},
			},
		},
		{
			name: "non-string scalar values",
			in:   map[string]any{"X-Count": 3, "X-Flag": true},
			want: []message.Header{{Name: "X-Count", Value: "3"}, {Name: "X-Flag", Value: "true"}},
		},
		{
			name: "http.Header",
			in:   http.Header{"X-Trace": {"t1", "t2"}},
			want: []message.Header{{Name: "X-Trace", Value: "t1"}, {Name: "X-Trace", Value: "t2"}},
		},
		{
			name: "key value list keeps order",
			in:   []header.KeyValue{{Key: "X-Z", Value: "last"}, {Key: "X-A", Value: "first"}},
			want: []message.Header{{Name: "X-Z", Value: "last"}, {Name: "X-A", Value: "first"}},
		},
		{
			name: "decoded JSON list",
			in: []any{
				map[string]any{"key": "X-One", "value": "1"},
				map[string]any{"key": "X-Two", "value": float64(2)},
			},
			want: []message.Header{{Name: "X-One", Value: "1"}, {Name: "X-Two", Value: "2"}},
		},
		{
			name: "already normalized",
			in:   []message.Header{{Name: "X-A", Value: "1"}},
			want: []message.Header{{Name: "X-A", Value: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := header.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_MapAndListShapesAgree(t *testing.T) {
	fromMap, err := header.Parse(map[string]any{"X-Key": "v"})
	require.NoError(t, err)

	fromList, err := header.Parse([]any{map[string]any{"key": "X-Key", "value": "v"}})
	require.NoError(t, err)

	assert.Equal(t, fromMap, fromList)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{name: "unsupported type", in: 42},
		{name: "list entry without key", in: []any{map[string]any{"value": "v"}}},
		{name: "list entry of wrong type", in: []any{"X-Key: v"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := header.Parse(tt.in)
			require.Error(t, err)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}
