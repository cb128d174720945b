/*
Package backend is the HTTP client for the Motoko retrieval and generation
service.

The client performs exactly two calls, POST /api/v1/context and
POST /api/v1/generate, each carrying the static x-api-key credential. It keeps
no state between calls and never retries: a failed round trip is reported once,
with the backend's own error text preserved in [Error].
*/
package backend
