package models

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONMap_Value(t *testing.T) {
	tests := []struct {
		name string
		m    JSONMap
		want driver.Value
	}{
		{
			name: "nil map stores NULL",
			m:    nil,
			want: nil,
		},
		{
			name: "empty map stores NULL",
			m:    JSONMap{},
			want: nil,
		},
		{
			name: "populated map stores JSON text",
			m:    JSONMap{"category": "groceries"},
			want: `{"category":"groceries"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.m.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONMap_Scan(t *testing.T) {
	// sqlite hands back TEXT as string, the postgres driver as []byte;
	// both must decode to the same map
	var fromString JSONMap
	require.NoError(t, fromString.Scan(`{"spent":"6000","limit":"5000"}`))
	assert.Equal(t, "6000", fromString["spent"])
	assert.Equal(t, "5000", fromString["limit"])

	var fromBytes JSONMap
	require.NoError(t, fromBytes.Scan([]byte(`{"spent":"6000"}`)))
	assert.Equal(t, "6000", fromBytes["spent"])

	var fromNull JSONMap
	require.NoError(t, fromNull.Scan(nil))
	assert.Nil(t, fromNull)

	var fromInt JSONMap
	assert.Error(t, fromInt.Scan(42))
}

func TestJSONMap_ValueScanRoundTrip(t *testing.T) {
	original := JSONMap{"category": "dining", "overshoot": "150.25"}

	stored, err := original.Value()
	require.NoError(t, err)

	var restored JSONMap
	require.NoError(t, restored.Scan(stored))
	assert.Equal(t, original, restored)
}
