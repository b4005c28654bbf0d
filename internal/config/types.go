package config

import (
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/predeploy/internal/model"
	"github.com/alexisbeaulieu97/predeploy/internal/runner"
)

// Config represents a predeploy sequence document.
type Config struct {
	Version     string   `yaml:"version" validate:"required,semver"`
	Name        string   `yaml:"name" validate:"required,min=1,max=100"`
	Description string   `yaml:"description,omitempty"`
	Settings    Settings `yaml:"settings,omitempty"`
	Steps       []Step   `yaml:"steps" validate:"required,min=1,dive"`
}

// Settings holds run-wide parameters.
type Settings struct {
	WorkDir string `yaml:"workdir,omitempty"`
	DryRun  bool   `yaml:"dry_run,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Step is one external command in the sequence.
type Step struct {
	ID      string            `yaml:"id" validate:"required,step_id"`
	Name    string            `yaml:"name,omitempty" validate:"omitempty,max=100"`
	Run     string            `yaml:"run" validate:"required,command_line"`
	WorkDir string            `yaml:"workdir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Enabled bool              `yaml:"enabled,omitempty"`
}

// UnmarshalYAML defaults Enabled to true when the key is absent.
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	type rawStep struct {
		ID      string            `yaml:"id"`
		Name    string            `yaml:"name"`
		Run     string            `yaml:"run"`
		WorkDir string            `yaml:"workdir"`
		Env     map[string]string `yaml:"env"`
		Enabled *bool             `yaml:"enabled"`
	}

	var raw rawStep
	if err := value.Decode(&raw); err != nil {
		return err
	}

	s.ID = raw.ID
	s.Name = raw.Name
	s.Run = raw.Run
	s.WorkDir = raw.WorkDir
	s.Env = raw.Env
	s.Enabled = true
	if raw.Enabled != nil {
		s.Enabled = *raw.Enabled
	}
	return nil
}

// Command converts the step into a runnable command. A relative step
// workdir is resolved against baseDir.
func (s Step) Command(baseDir string) (runner.Command, error) {
	cmd, err := runner.Parse(s.Run)
	if err != nil {
		return runner.Command{}, err
	}

	dir := baseDir
	if s.WorkDir != "" {
		dir = s.WorkDir
		if !filepath.IsAbs(dir) && baseDir != "" {
			dir = filepath.Join(baseDir, dir)
		}
	}
	cmd.Dir = dir

	if len(s.Env) > 0 {
		cmd.Env = make(map[string]string, len(s.Env))
		for k, v := range s.Env {
			cmd.Env[k] = v
		}
	}
	return cmd, nil
}

// EnabledSteps returns the steps that will run, in declaration order.
func (c *Config) EnabledSteps() []Step {
	out := make([]Step, 0, len(c.Steps))
	for _, step := range c.Steps {
		if step.Enabled {
			out = append(out, step)
		}
	}
	return out
}

// Refs describes the enabled steps with their ordinal positions.
func (c *Config) Refs() []model.StepRef {
	steps := c.EnabledSteps()
	refs := make([]model.StepRef, 0, len(steps))
	for i, step := range steps {
		refs = append(refs, model.StepRef{
			Index:   i + 1,
			Total:   len(steps),
			ID:      step.ID,
			Name:    step.Name,
			Command: step.Run,
		})
	}
	return refs
}
