package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalIDUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    ExternalID
		wantErr bool
	}{
		{name: "number", input: `30`, want: "30"},
		{name: "string", input: `"30"`, want: "30"},
		{name: "padded string", input: `" 1943 "`, want: "1943"},
		{name: "null", input: `null`, want: ""},
		{name: "empty string", input: `""`, want: ""},
		{name: "object", input: `{"id":1}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				ID ExternalID `json:"id"`
			}
			err := json.Unmarshal([]byte(`{"id":`+tt.input+`}`), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
			assert.Equal(t, tt.want == "", got.ID.IsZero())
		})
	}
}

func TestTimestampUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
	}{
		{name: "number", input: `1579046400`, want: Timestamp{Seconds: 1579046400, Valid: true}},
		{name: "numeric string", input: `"1579046400"`, want: Timestamp{Seconds: 1579046400, Valid: true}},
		{name: "zero", input: `0`, want: Timestamp{Seconds: 0, Valid: true}},
		{name: "float", input: `1579046400.0`, want: Timestamp{Seconds: 1579046400, Valid: true}},
		{name: "null", input: `null`, want: Timestamp{}},
		{name: "empty", input: `""`, want: Timestamp{}},
		{name: "garbage", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got struct {
				TS Timestamp `json:"ts"`
			}
			err := json.Unmarshal([]byte(`{"ts":`+tt.input+`}`), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TS)
		})
	}
}

func TestTextUnmarshal(t *testing.T) {
	t.Parallel()

	var got []Text
	require.NoError(t, json.Unmarshal([]byte(`["Yes", 7, 1.5, true, null]`), &got))
	assert.Equal(t, []Text{"Yes", "7", "1.5", "true", ""}, got)
}
