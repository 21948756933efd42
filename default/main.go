// Package defaults provides embedded default assets (config and content bundle).
package defaults

import _ "embed"

//go:embed default_config.json
var DefaultConfigJSON []byte

//go:embed content.toml
var ContentTOML []byte
