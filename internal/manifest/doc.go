// Package manifest parses and validates the YAML manifests that describe
// executable calculator plugins (*.plugin.yaml). Manifests are checked against
// an embedded JSON Schema before they are decoded, and a manifest may pin the
// plugin API versions it supports with a semver constraint.
package manifest
