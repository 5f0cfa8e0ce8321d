// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the in-memory representation of the function's configuration.
//
// Fields:
//   - AdministratorAccountName: name of the audit account that receives the
//     delegated administrator registrations.
//   - ExecutionRoleName: cross-account role assumed in the administrator
//     account (typically AWSControlTowerExecution).
//   - PrimaryRegion: home region; Security Hub findings aggregate here.
//   - Regions: regions to configure. Empty means discover every region that
//     does not require opt-in.
//   - EnableAIOptOutPolicy: create and attach the AI services opt-out policy.
//   - EnableDetective: also delegate Amazon Detective administration.
type Settings struct {
	AdministratorAccountName string   `yaml:"administrator_account_name"`
	ExecutionRoleName        string   `yaml:"execution_role_name"`
	PrimaryRegion            string   `yaml:"primary_region"`
	Regions                  []string `yaml:"regions"`
	EnableAIOptOutPolicy     bool     `yaml:"enable_ai_optout_policy"`
	EnableDetective          bool     `yaml:"enable_detective"`
}

// Load reads Settings from the environment variables the deployment template
// declares. Missing required values surface here, before any AWS call is
// made.
func Load() (Settings, error) {
	s := Settings{
		AdministratorAccountName: os.Getenv("ADMINISTRATOR_ACCOUNT_NAME"),
		ExecutionRoleName:        os.Getenv("EXECUTION_ROLE_NAME"),
		PrimaryRegion:            os.Getenv("PRIMARY_REGION"),
		Regions:                  splitRegions(os.Getenv("REGIONS")),
		EnableAIOptOutPolicy:     boolEnv("ENABLE_AI_OPTOUT_POLICY"),
		EnableDetective:          boolEnv("ENABLE_DETECTIVE"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// LoadFile reads Settings from a YAML document. Used by the operator CLI;
// the Lambda never reads files.
func LoadFile(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the values required before the sweep can start.
// PrimaryRegion is deliberately not required: the lifecycle event path takes
// the region from the event itself.
func (s Settings) Validate() error {
	if s.AdministratorAccountName == "" {
		return fmt.Errorf("ADMINISTRATOR_ACCOUNT_NAME is required")
	}
	if s.ExecutionRoleName == "" {
		return fmt.Errorf("EXECUTION_ROLE_NAME is required")
	}
	return nil
}

// splitRegions parses the comma-separated REGIONS value, dropping empty
// entries so trailing commas are harmless.
func splitRegions(raw string) []string {
	var regions []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.TrimSpace(r)
		if r != "" {
			regions = append(regions, r)
		}
	}
	return regions
}

func boolEnv(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}
