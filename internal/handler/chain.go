package handler

import "net/http"

// Interceptor wraps a handler with behaviour that runs before (and possibly
// instead of) it.
type Interceptor func(http.Handler) http.Handler

// Chain wraps h so that interceptors run in the order given: the first one
// sees the request first. Any interceptor may answer the request itself and
// stop the chain.
func Chain(h http.Handler, interceptors ...Interceptor) http.Handler {
	for i := len(interceptors) - 1; i >= 0; i-- {
		h = interceptors[i](h)
	}
	return h
}
