package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "version": "1.0.0",
  "activities": [
    {"id": "journey.identity.verify-pan", "taskType": "verify-pan", "timeout": "10s"},
    {"id": "journey.kyc.document-step", "taskType": "kyc-document-step", "timeout": "10s"}
  ]
}`

func TestLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Len(t, reg.Activities, 2)

	a, ok := reg.Find("kyc-document-step")
	require.True(t, ok)
	assert.Equal(t, "journey.kyc.document-step", a.ID)

	_, ok = reg.Find("missing")
	assert.False(t, ok)
	assert.Empty(t, reg.Check())
}

func TestCheck(t *testing.T) {
	reg := &ActivityRegistry{Activities: []Activity{
		{ID: "Journey.Bad", TaskType: "a"},
		{ID: "journey.x.y", TaskType: "a", Timeout: "soon"},
		{ID: "journey.x.z"},
	}}

	problems := reg.Check()
	require.Len(t, problems, 4)
	assert.Contains(t, problems[0].Error(), "domain.subdomain.action")
	assert.Contains(t, problems[1].Error(), "already used")
	assert.Contains(t, problems[2].Error(), "invalid timeout")
	assert.Contains(t, problems[3].Error(), "taskType is empty")
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("{"))
	assert.Error(t, err)
}
