// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the built frontend (frontend/dist), served directly via
// HTTP. The real bundle is copied into pkg/embedded/ during the release
// build; the checked-in files are a minimal shell so the binary is usable
// without a frontend build.
//
//go:embed frontend/dist
var Files embed.FS
