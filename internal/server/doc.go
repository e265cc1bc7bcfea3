// Package server exposes the library store as a JSON HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /books"), so a path can
// carry one handler per method and wildcards such as {id} are read with [http.Request.PathValue].
//
// # Middleware
//
//   - [Logging] writes one structured line per request
//   - [Recover] turns handler panics into 500 responses
//   - [RateLimit] applies a per-client token bucket and answers 429 with Retry-After
//
// # Library API
//
// [LibraryHandler] registers the book, student and loan routes. Business failures keep the
// {success, message, warning} body and map to 400, 404 or 409; storage faults answer 500.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
