package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/predeploy/internal/logger"
)

func validateRunOptions(opts runOptions) error {
	if opts.ConfigPath != "" {
		if err := validateConfigPath(opts.ConfigPath); err != nil {
			return err
		}
	}

	if opts.WorkDir != "" {
		if err := validateWorkDir(opts.WorkDir); err != nil {
			return err
		}
	}

	switch strings.ToLower(opts.LogFormat) {
	case "", logger.FormatConsole, logger.FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (want %s or %s)", opts.LogFormat, logger.FormatConsole, logger.FormatJSON)
	}

	return nil
}

func validateConfigPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("config file does not exist: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", abs)
	}

	return nil
}

func validateWorkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("workdir does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workdir %s is not a directory", dir)
	}
	return nil
}

// resolveWorkDir picks the flag, then the config setting, then the current
// directory, and returns an absolute path.
func resolveWorkDir(flagValue, configValue string) (string, error) {
	dir := flagValue
	if dir == "" {
		dir = configValue
	}
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve workdir: %w", err)
	}
	return abs, nil
}
