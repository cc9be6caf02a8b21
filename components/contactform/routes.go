package contactform

import (
	"net/http"
	"strings"
)

// Sub-routes under the base path.
const (
	fieldRoute  = "/field"
	submitRoute = "/submit"
	resetRoute  = "/reset"
	apiRoute    = "/api"
	assetsRoute = "/assets"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath returns the full path of a sub-route under basePath.
func MountPath(basePath, route string) string {
	return mountPath(basePath, route)
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath != "" && !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		if routePath == "" {
			return "/"
		}
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
