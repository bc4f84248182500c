// Package data embeds the default species and device catalogs.
package data

import _ "embed"

//go:embed pokemon.json
var Species []byte

//go:embed pokeball.json
var Devices []byte
