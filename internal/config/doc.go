// Package config loads and validates the config-binder configuration file.
//
// The file is YAML (config-binder.yaml) or TOML (config-binder.toml):
//
//	version: "1"
//	packages: [./internal/app]
//	output: ./internal/app/bindings
//	package: bindings
//	components:
//	  - root: example.com/app/internal/app.Config
//	    binder: env
//	properties:
//	  app.region: eu-west-1
//	namespaces:
//	  build:
//	    stage: prod
package config
