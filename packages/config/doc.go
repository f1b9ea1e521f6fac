// Package config loads fspec project configuration.
//
// Configuration lives in a YAML file at the project root, searched as
// .fspec.yaml, .fspec.yml, then fspec.yaml. Flags override file values
// through Merge; boolean fields are pointers so an explicit false wins
// over an unset value.
package config
