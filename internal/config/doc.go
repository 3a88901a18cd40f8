// Package config loads the YAML settings for the sadp-scan harness:
// interface selection, EtherType override, counter seeding and the response
// collection window. Missing files fall back to defaults so the tool runs
// without any setup.
package config
