// Package uigateway provides embedded page assets for production builds.
package uigateway

import "embed"

// Embedded page shell for production builds.
// In dev mode (IsDev=true), pages are loaded from disk for hot reloading.
// In production mode (IsDev=false), pages are served from this embedded filesystem.

//go:embed all:public
var PagesFS embed.FS
