// Package connectrpc exposes the use cases as Connect unary procedures with
// JSON bodies.
package connectrpc

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Empty is the request or response of procedures without fields.
type Empty struct{}

// Route binds a procedure path to its handler.
type Route struct {
	Procedure string
	Handler   http.Handler
}

// Service is a named group of procedures.
type Service interface {
	Routes(opts ...connect.HandlerOption) []Route
}

// Mount registers every service route on mux. The JSON codec is always
// installed ahead of the caller's options.
func Mount(mux *http.ServeMux, services []Service, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	for _, svc := range services {
		for _, route := range svc.Routes(opts...) {
			mux.Handle(route.Procedure, route.Handler)
		}
	}
}

func procedure(service, method string) string {
	return "/" + service + "/" + method
}

func unary[Req, Res any](path string, fn func(context.Context, *Req) (*Res, error), opts ...connect.HandlerOption) Route {
	return unaryRequest(path, func(ctx context.Context, req *connect.Request[Req]) (*Res, error) {
		return fn(ctx, req.Msg)
	}, opts...)
}

// unaryRequest is unary with access to headers.
func unaryRequest[Req, Res any](path string, fn func(context.Context, *connect.Request[Req]) (*Res, error), opts ...connect.HandlerOption) Route {
	handler := connect.NewUnaryHandler(path, func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
		res, err := fn(ctx, req)
		if err != nil {
			return nil, toConnectError(err)
		}
		return connect.NewResponse(res), nil
	}, opts...)
	return Route{Procedure: path, Handler: handler}
}
