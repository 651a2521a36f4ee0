// Package config loads run settings from defaults, an optional YAML file,
// VISA_BULLETIN_* environment variables and command-line flags, in
// increasing order of precedence.
//
// Example config.yaml:
//
//	cache_dir: ~/.cache/visa-bulletin
//	data_dir: ~/visa-bulletin
//	format: csv
//	delay: 100ms
//	concurrency: 4
//	log:
//	  level: info
package config
