package main

import "embed"

// configFS holds the default configs so the binary runs without -data.
//
//go:embed configs
var configFS embed.FS
