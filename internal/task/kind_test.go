package task

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryankumar/taskpool/internal/util"
)

func TestKind_String(t *testing.T) {
	assert.Equal(t, "READ", KindRead.String())
	assert.Equal(t, "WRITE", KindWrite.String())
	assert.Equal(t, "UNKNOWN", KindUnknown.String())
	assert.False(t, KindUnknown.Valid())
	assert.False(t, Kind(42).Valid())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "read", want: KindRead},
		{input: "READ", want: KindRead},
		{input: " Write ", want: KindWrite},
		{input: "delete", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, util.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds([]string{"read", "write", "READ"})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindRead, KindWrite, KindRead}, kinds)

	_, err = ParseKinds([]string{"read", "bogus"})
	require.Error(t, err)
}

func TestKind_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Kind{"kind": KindWrite})
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"WRITE"}`, string(data))

	var decoded map[string]Kind
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"read"}`), &decoded))
	assert.Equal(t, KindRead, decoded["kind"])
}
