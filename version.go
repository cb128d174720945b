package motoko

// Version is the release of the gateway reported to MCP clients and sent as
// part of the backend User-Agent. Overridden at build time with
// -ldflags "-X github.com/aretw0/motoko-mcp.Version=...".
var Version = "0.3.1"

// Name is the server name advertised during the MCP handshake.
const Name = "motoko-mcp"
