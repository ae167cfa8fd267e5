package structures

import "net/http"

type Route struct {
	Url     string
	Methods map[string]http.Handler
	Handler http.Handler
}
