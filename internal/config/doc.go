// Package config loads vbind project configuration.
//
// The configuration is stored in vbind.yaml (or vbind.json) at the project
// root. Relative file paths are resolved against the config file's
// directory. Command-line flags override loaded values.
//
// # Configuration File Structure
//
//	template: component.html
//	data: data.yaml
//	live:
//	  addr: localhost:7300
//	  path: /_vbind/live
//	metrics:
//	  enabled: true
//	  namespace: vbind
//	log:
//	  level: info
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
