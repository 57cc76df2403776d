package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// missingAccountText is the fixed envelope for the no-active-account
// precondition. It is returned before any remote call is attempted and is
// distinguishable from every remote-side failure.
const missingAccountText = "No active account is configured. " +
	"Set account.id in the configuration file or the VECTORD_ACCOUNT_ID environment variable."

// textResult wraps a string as the uniform single-text-block envelope.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult formats a fault as an error envelope. action names the
// operation's purpose ("creating index", "querying index", ...); the fault's
// own message follows it.
func errorResult(action string, err error) *mcp.CallToolResult {
	return textResult(fmt.Sprintf("Error %s: %s", action, err.Error()))
}

// jsonResult serializes payload as the success envelope. An empty payload
// (nil, or one that serializes to null) substitutes the fallback sentence
// instead of propagating an empty body.
func jsonResult(payload any, fallback string) *mcp.CallToolResult {
	if payload == nil {
		return textResult(fallback)
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return errorResult("serializing response", err)
	}
	if string(encoded) == "null" {
		return textResult(fallback)
	}
	return textResult(string(encoded))
}
