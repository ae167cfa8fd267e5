package providers

import (
	"net/http"

	"hangovr/internal/structures"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	Delete(url string, handler http.Handler)
	GetRoutes() []structures.Route
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.add(http.MethodPost, url, handler)
}

func (rp *RouterProvider) Delete(url string, handler http.Handler) {
	rp.add(http.MethodDelete, url, handler)
}

// add registers handler for method on url. A url registered under several
// methods shares one route that dispatches on the request method.
func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	for i := range rp.routes {
		if rp.routes[i].Url == url {
			rp.routes[i].Methods[method] = handler
			return
		}
	}
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Methods: map[string]http.Handler{method: handler},
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	out := make([]structures.Route, len(rp.routes))
	for i, r := range rp.routes {
		out[i] = r
		out[i].Handler = methodHandler(r.Methods)
	}
	return out
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func methodHandler(methods map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := methods[r.Method]
		if !ok {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
