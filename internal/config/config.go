// Package config loads branchctl settings from .branchctl.yaml and
// BRANCHCTL_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the workflow configuration for one repository
type Config struct {
	Remote        string   `mapstructure:"remote"`
	MainBranch    string   `mapstructure:"main_branch"`
	StagingBranch string   `mapstructure:"staging_branch"`
	TaskPrefix    string   `mapstructure:"task_prefix"`
	FirstRelease  string   `mapstructure:"first_release"`
	CommitTypes   []string `mapstructure:"commit_types"`
	GitHub        GitHub   `mapstructure:"github"`
}

// GitHub holds the settings needed to open pull requests
type GitHub struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Token string `mapstructure:"token"`
}

// DefaultCommitTypes is the commit-type enumeration enforced by lint-commit
var DefaultCommitTypes = []string{"feat", "fix", "docs", "style", "refactor", "test", "chore", "release"}

// Load reads configuration from the given directory. A missing config file is
// not an error; defaults and environment variables still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".branchctl")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetDefault("remote", "origin")
	v.SetDefault("main_branch", "main")
	v.SetDefault("staging_branch", "staging")
	v.SetDefault("task_prefix", "CU")
	v.SetDefault("first_release", "zero")
	v.SetDefault("commit_types", DefaultCommitTypes)
	v.SetDefault("github.owner", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.token", "")

	v.SetEnvPrefix("BRANCHCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.FirstRelease {
	case "zero", "one":
	default:
		return fmt.Errorf("first_release: %q is invalid (valid values: zero, one)", c.FirstRelease)
	}
	if c.MainBranch == c.StagingBranch {
		return fmt.Errorf("main_branch and staging_branch must differ, both are %q", c.MainBranch)
	}
	return nil
}
