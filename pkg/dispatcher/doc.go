/*
Package dispatcher is the protocol state machine of the gateway.

Each inbound JSON-RPC message is routed by method:

  - tools/list returns the registry catalog verbatim, in registration order.
  - tools/call resolves the tool by name, merges the arguments over the declared
    defaults, validates them and runs the handler.
  - everything else (initialize, ping, notifications, unknown methods) is answered
    by an embedded mcp-go server.

Failures follow two tiers. Malformed or unroutable messages become JSON-RPC
error objects. Anything that goes wrong inside a tool call (unknown tool,
invalid arguments, backend failure, handler panic) is absorbed into a normal
result with isError set and a single "Error: <message>" text block.
*/
package dispatcher
