package config

import (
	"fmt"
	"os"
)

const exampleConfig = `# databuild configuration
package:
  manifest: datapackage.yaml

render:
  # Working directory for unit execution (relative to this file).
  root: .
  # Processing units run strictly in declared order; later units can read
  # objects produced by earlier ones through DATABUILD_CONTEXT.
  units:
    - script: data-raw/01_prepare.sh
    - script: data-raw/02_derive.sh
      enabled: true
  # Only objects named here are captured into the package.
  objects:
    - example_dataset

output:
  data_dir: data
  docs_dir: docs
  state_dir: .databuild

build:
  # strict: fail on allowlisted objects never produced and on
  # digest/version contradictions. Set to false to downgrade both to
  # accepted-with-warning.
  strict: true
`

const exampleManifest = `name: example-package
title: Example Data Package
version: 0.1.0
description: Describe what this data package contains.
`

// Init creates a new configuration file plus the package skeleton
// (manifest, data-raw/, data/, docs/) around it.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("write configuration file: %w", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	for _, dir := range []string{cfg.ResolvePath("data-raw"), cfg.DataDir(), cfg.DocsDir(), cfg.StateDir()} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	manifestPath := cfg.ManifestPath()
	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		if err := os.WriteFile(manifestPath, []byte(exampleManifest), 0o644); err != nil {
			return fmt.Errorf("write package manifest: %w", err)
		}
	}
	return nil
}
