// Package api exposes the debt network operations over HTTP with gin.
//
// Every request carries its own network, as {"nodes": [...], "matrix": [...]}
// or as the Base64 "code" of that JSON, so the server keeps no state between
// requests. Errors come back as ErrorResponse with a stable code:
//
//	400 INVALID_REQUEST  body does not bind
//	400 INVALID_MATRIX   non-square, negative or non-integer amounts
//	404 NODE_NOT_FOUND   unknown party name
//	422 NO_DIRECT_EDGE   the named debt does not exist
//	422 NO_PATH          no way back to close a cycle
//	422 INVALID_CYCLE    the cycle cannot be applied
//
// Each request is logged with its X-Request-ID and counted in the
// amo_http_* Prometheus metrics served on /metrics.
package api
