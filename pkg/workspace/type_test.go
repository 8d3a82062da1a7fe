package workspace

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"app", TypeApp, false},
		{"esm-view", TypeESMView, false},
		{"view", TypeView, false},
		{"package", TypePackage, false},
		{"source", TypeSource, false},
		{"root", TypeRoot, false},
		{"library", TypeUnknown, true},
		{"", TypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestType_IsBuildable(t *testing.T) {
	assert.True(t, TypeApp.IsBuildable())
	assert.True(t, TypePackage.IsBuildable())
	assert.False(t, TypeSource.IsBuildable())
	assert.False(t, TypeRoot.IsBuildable())
	assert.False(t, TypeUnknown.IsBuildable())
}

func TestType_TextEncoding(t *testing.T) {
	type doc struct {
		Type Type `json:"type" yaml:"type"`
	}

	var fromJSON doc
	require.NoError(t, json.Unmarshal([]byte(`{"type":"esm-view"}`), &fromJSON))
	assert.Equal(t, TypeESMView, fromJSON.Type)

	var fromYAML doc
	require.NoError(t, yaml.Unmarshal([]byte("type: view\n"), &fromYAML))
	assert.Equal(t, TypeView, fromYAML.Type)

	out, err := json.Marshal(doc{Type: TypeRoot})
	require.NoError(t, err)
	assert.Equal(t, `{"type":"root"}`, string(out))

	_, err = json.Marshal(doc{Type: TypeUnknown})
	assert.Error(t, err)

	assert.Error(t, json.Unmarshal([]byte(`{"type":"bogus"}`), &fromJSON))
	assert.Equal(t, "unknown", Type(42).String())
}
