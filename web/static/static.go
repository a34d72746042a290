package static

import "embed"

//go:embed css
var Files embed.FS
