// Package permissions gates command and skill execution against the
// configured allow-list and block-list of tool capabilities. A nil
// allow-list means no restriction, matching configurations written
// before tool gating existed.
package permissions

import (
	"fmt"
	"strings"

	"github.com/meirm/askgpt/pkg/frontmatter"
)

// Policy is the allow-list/block-list configuration evaluated before a
// definition is rendered. BlockedTools entries also match whole
// definition names, which is how individual commands get disabled.
type Policy struct {
	AllowedTools []string
	BlockedTools []string
}

// NewPolicy normalizes the given tool lists into a Policy. A nil
// allowed slice is preserved as nil since it means "no restriction",
// which is different from an empty allow-list.
func NewPolicy(allowed, blocked []string) *Policy {
	p := &Policy{}
	if allowed != nil {
		p.AllowedTools = normalizeList(allowed)
	}
	p.BlockedTools = normalizeList(blocked)
	return p
}

func normalizeList(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if normalized := frontmatter.NormalizeTool(n); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// DeniedError is returned when a definition fails the permission check.
// Its message carries the bracketed [Error: ...] marker so callers can
// tell a denial apart from resolved template text.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("[Error: %s]", e.Reason)
}

// Check evaluates a definition's required tools against the policy.
// A nil return means the definition may run. Rules, in order: a
// block-listed definition name always denies; no required tools always
// allows; a block-listed tool denies even when also allow-listed; with
// an allow-list present, every required tool must appear in it.
func (p *Policy) Check(name string, requiredTools []string) error {
	if p == nil {
		return nil
	}

	if p.isBlocked(name) {
		return &DeniedError{Reason: fmt.Sprintf("Command '%s' is blocked", name)}
	}

	if len(requiredTools) == 0 {
		return nil
	}

	var missing []string
	for _, tool := range requiredTools {
		tool = frontmatter.NormalizeTool(tool)
		if p.isBlocked(tool) {
			return &DeniedError{Reason: fmt.Sprintf("Tool '%s' is blocked", tool)}
		}
		if p.AllowedTools != nil && !contains(p.AllowedTools, tool) {
			missing = append(missing, tool)
		}
	}

	if len(missing) > 0 {
		return &DeniedError{
			Reason: fmt.Sprintf("Command requires tools not allowed: %s", strings.Join(missing, ", ")),
		}
	}

	return nil
}

// SkillsEnabled reports whether the skills system is on. With no
// allow-list everything runs; with one, "skill" must be listed.
func (p *Policy) SkillsEnabled() bool {
	if p == nil || p.AllowedTools == nil {
		return true
	}
	return contains(p.AllowedTools, "skill")
}

func (p *Policy) isBlocked(name string) bool {
	return contains(p.BlockedTools, strings.ToLower(name))
}

func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
