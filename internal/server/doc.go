// Package server exposes the data access module over a JSON HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses a chi mux internally, which provides path parameters
// such as /tracks/{id} and answers 405 for known paths requested with the wrong method.
//
// # Middleware
//
//   - [RequestID] : Tags each request with an X-Request-ID (uuid v4 unless the client sent one)
//   - [Logging] : Logs method, path, status and duration for each request
//   - [Recover] : Turns handler panics into 500 responses
//   - [RateLimiter] : Per-client token bucket, applied to POST /login
//
// # API
//
// [APIHandler] maps each store operation to an endpoint. Errors are translated by kind:
// not found is 404, invalid input 400, constraint violations 409 and connection failures 503.
// Empty listings are returned as 200 with an empty array.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// [HealthHandler] is registered this way.
package server
