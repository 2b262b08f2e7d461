package main

import (
	"github.com/pkg/errors"

	"github.com/meirm/askgpt/pkg/commands"
	"github.com/meirm/askgpt/pkg/config"
	"github.com/meirm/askgpt/pkg/permissions"
	"github.com/meirm/askgpt/pkg/skills"
)

// newStore wires the command store, skill discovery, and permission
// policy from the loaded configuration.
func newStore() (*commands.Store, *skills.Discovery, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	policy := permissions.NewPolicy(cfg.AllowedTools, cfg.BlockedTools)

	discovery, err := skills.NewDiscovery(skills.WithPolicy(policy))
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize skill discovery")
	}

	store, err := commands.NewStore(
		commands.WithPolicy(policy),
		commands.WithCommandEval(config.ResolveCommandEval(cfg.EnableCommandEval)),
		commands.WithSkills(discovery),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to initialize command store")
	}

	if err := store.EnsureDirs(); err != nil {
		out.Warning("Could not create command directories: " + err.Error())
	}

	return store, discovery, nil
}
