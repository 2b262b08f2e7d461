package commands

import (
	"context"

	"github.com/meirm/askgpt/pkg/logger"
	"github.com/meirm/askgpt/pkg/template"
)

// Execute resolves a name and argument string into final prompt text.
//
// Commands always take precedence over same-named skills. A command
// that fails the permission check returns the bracketed [Error: ...]
// string with ok=true so the caller can report the denial. A skill
// that is disabled behaves exactly like one that does not exist: the
// fallback returns ok=false either way. No failure mode panics or
// returns a Go error; ok=false is the only "not found" signal.
func (s *Store) Execute(ctx context.Context, name, arguments string) (string, bool) {
	if cmd, ok := s.Load(ctx, name); ok {
		if err := s.policy.Check(cmd.Name, cmd.RequiredTools); err != nil {
			logger.G(ctx).WithFields(map[string]interface{}{
				"command": name,
				"reason":  err.Error(),
			}).Debug("Command denied by policy")
			return err.Error(), true
		}
		return template.Render(ctx, cmd.PromptTemplate, arguments, s.evalEnabled), true
	}

	if s.skills != nil {
		if skill, ok := s.skills.GetSkill(ctx, name); ok && skill.Enabled {
			logger.G(ctx).WithField("skill", skill.Name).Debug("Falling back to skill")
			return template.Render(ctx, skill.Instructions, arguments, s.evalEnabled), true
		}
	}

	return "", false
}
