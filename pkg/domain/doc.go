/*
Package domain contains the core types shared by the Motoko MCP gateway.

It is kept free of I/O: the transport, registry, backend client and
dispatcher all speak in terms of these types.

# Key Entities

  - Content: the ordered text blocks a tool returns to the protocol client.
  - ToolError: a recoverable, tool-level fault. It always becomes an error-flagged
    result and never a protocol error.
  - StartupError: an unrecoverable fault raised while the process boots. It is the
    only failure kind that terminates the process.
*/
package domain
