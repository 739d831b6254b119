// Package loader reads declarative pipeline definitions from YAML files and
// builds them into dsl pipelines through the public construction API.
package loader
