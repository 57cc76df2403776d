// Package mcp exposes the vector-index tools over the Model Context
// Protocol.
//
// This implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and registers one tool per index/vector operation. Every tool returns a
// single text content block: either a JSON-serialized payload or a plain
// diagnostic sentence. Failures are reported inside that text block with an
// "Error ..." prefix; handlers never surface a protocol-level error to the
// runtime, so callers distinguish failure by text content. That is the
// interface contract, not an accident.
package mcp
