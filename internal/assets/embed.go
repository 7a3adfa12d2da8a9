// Package assets embeds the files "lodqa init" installs into a project.
package assets

import _ "embed"

// ConfigTemplate is the annotated default configuration.
//
//go:embed lodqa.yaml
var ConfigTemplate []byte
