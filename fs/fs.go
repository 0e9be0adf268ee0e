// Package appfs embeds files needed at runtime so built binaries stay
// self-contained.
package appfs

import "embed"

//go:embed migrations
var FS embed.FS
