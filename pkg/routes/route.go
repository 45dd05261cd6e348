// Package routes declares handler route tables and mounts them on a chi router.
package routes

import "net/http"

// Route binds an HTTP method and chi pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}
