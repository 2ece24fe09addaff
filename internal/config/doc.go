// Package config loads and validates the deptpulse YAML configuration.
//
// Load(path) reads the file, fills defaults for absent fields, and rejects
// structurally invalid configs. The category list — which source column
// feeds which scored dimension — is fixed at startup and never changes at
// runtime; Watch only detects file edits so operators see that a restart
// is needed.
package config
