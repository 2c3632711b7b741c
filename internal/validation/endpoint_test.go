package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEndpointID(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		errMsg   string
		wantErr  bool
	}{
		{name: "valid - simple", endpoint: "sidebar"},
		{name: "valid - uuid", endpoint: uuid.NewString()},
		{name: "valid - underscores and digits", endpoint: "tab_42"},
		{name: "valid - max length", endpoint: strings.Repeat("a", 64)},
		{name: "empty", endpoint: "", wantErr: true, errMsg: "cannot be empty"},
		{name: "too short", endpoint: "ab", wantErr: true, errMsg: "at least 3"},
		{name: "too long", endpoint: strings.Repeat("a", 65), wantErr: true, errMsg: "must not exceed 64"},
		{name: "space", endpoint: "side bar", wantErr: true, errMsg: "can only contain"},
		{name: "cyrillic", endpoint: "окно", wantErr: true, errMsg: "can only contain"},
		{name: "slash", endpoint: "a/b/c", wantErr: true, errMsg: "can only contain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEndpointID(tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}
