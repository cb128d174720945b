/*
Package motoko is a Model Context Protocol (MCP) gateway that exposes a Motoko knowledge backend to AI agents as two tools.

It speaks JSON-RPC 2.0 over stdio, one message per line, and forwards tool calls to an HTTP backend that retrieves Motoko code snippets and generates new Motoko code. Results come back to the agent as markdown text blocks.

# Tools

  - get_motoko_context: retrieves ranked Motoko snippets for a query ("query" required, "limit" defaults to 5).
  - generate_motoko_code: generates Motoko code from a prompt ("prompt" required, optional "query", "temperature" defaults to 0.7, "max_tokens" defaults to 2000).

Backend and validation failures never break the session: they are reported as tool results flagged with isError and a single "Error: <message>" text block.

# Usage

Run the gateway as an MCP server from your agent configuration:

	{
	  "mcpServers": {
	    "motoko": {
	      "command": "motoko-mcp",
	      "env": {
	        "MOTOKO_API_KEY": "...",
	        "MOTOKO_API_URL": "https://motoko.example"
	      }
	    }
	  }
	}

Or embed the request path in another program:

	client := backend.New("http://localhost:8000", apiKey)
	reg, err := tools.NewRegistry(client)
	if err != nil {
		log.Fatal(err)
	}
	d := dispatcher.New(reg, dispatcher.WithServerInfo(motoko.Name, motoko.Version))
	err = transport.New(os.Stdin, os.Stdout).Serve(ctx, d)

# Packages

  - pkg/transport: newline-delimited JSON-RPC framing.
  - pkg/dispatcher: routes tools/list and tools/call, delegates the rest of the MCP surface.
  - pkg/registry: the ordered tool catalog with schema defaults and validation.
  - pkg/tools: the two Motoko tools and their markdown formatting.
  - pkg/backend: the HTTP client for the knowledge backend.
  - pkg/domain: tool results and the recoverable/fatal error kinds.
*/
package motoko
