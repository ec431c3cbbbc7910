package auth

import (
	"github.com/labstack/echo/v4"
)

// publicPaths lists URL paths that bypass authentication. These are
// infrastructure endpoints that liveness probes and metric scrapers
// must reach without credentials.
var publicPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// AuthSkipper returns true for requests whose path should skip
// authentication, so that health-check and metrics endpoints remain
// accessible without a bearer token.
func AuthSkipper(c echo.Context) bool {
	return publicPaths[c.Path()]
}

// IsPublicPath reports whether the given path is a public
// infrastructure endpoint that should bypass auth.
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
