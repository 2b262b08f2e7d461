package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_NoRestrictions(t *testing.T) {
	policy := NewPolicy(nil, nil)

	assert.NoError(t, policy.Check("anything", nil))
	assert.NoError(t, policy.Check("anything", []string{"read_file", "write_file"}))
}

func TestCheck_EmptyRequiredToolsAlwaysAllowed(t *testing.T) {
	policy := NewPolicy([]string{"read_file"}, []string{"write_file"})

	assert.NoError(t, policy.Check("plain", nil))
	assert.NoError(t, policy.Check("plain", []string{}))
}

func TestCheck_AllowListMissingTool(t *testing.T) {
	policy := NewPolicy([]string{"read_file"}, nil)

	err := policy.Check("cmd", []string{"read_file", "write_file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write_file")
	assert.Contains(t, err.Error(), "not allowed")
	assert.Contains(t, err.Error(), "[Error:")
}

func TestCheck_BlockWinsOverAllow(t *testing.T) {
	policy := NewPolicy([]string{"read_file"}, []string{"read_file"})

	err := policy.Check("cmd", []string{"read_file"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read_file")
	assert.Contains(t, err.Error(), "blocked")
}

func TestCheck_BlockedDefinitionName(t *testing.T) {
	policy := NewPolicy(nil, []string{"dangerous-cmd"})

	err := policy.Check("dangerous-cmd", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangerous-cmd")

	var denied *DeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestCheck_BlockListWithoutAllowList(t *testing.T) {
	policy := NewPolicy(nil, []string{"bash_command"})

	assert.NoError(t, policy.Check("cmd", []string{"read_file"}))
	assert.Error(t, policy.Check("cmd", []string{"bash_command"}))
}

func TestCheck_ToolAliasNormalization(t *testing.T) {
	// "Bash" in the allow list matches a definition requiring "bash_command"
	policy := NewPolicy([]string{"Bash"}, nil)
	assert.NoError(t, policy.Check("cmd", []string{"bash_command"}))

	// and the other way around
	policy = NewPolicy([]string{"bash_command"}, nil)
	assert.NoError(t, policy.Check("cmd", []string{"Bash"}))
}

func TestSkillsEnabled(t *testing.T) {
	assert.True(t, NewPolicy(nil, nil).SkillsEnabled())
	assert.True(t, NewPolicy([]string{"skill", "read_file"}, nil).SkillsEnabled())
	assert.False(t, NewPolicy([]string{"read_file"}, nil).SkillsEnabled())

	var nilPolicy *Policy
	assert.True(t, nilPolicy.SkillsEnabled())
}

func TestCheck_NilPolicy(t *testing.T) {
	var policy *Policy
	assert.NoError(t, policy.Check("cmd", []string{"anything"}))
}
