// Package config provides configuration structures and utilities for bundlesize.
// It defines the options of the compare and upload commands, the YAML
// configuration file and the XDG directories used for the report database.
package config
