// Package server implements the MCP (Model Context Protocol) server for the
// enhancement engine.
//
// # Protocol
//
// The server speaks JSON-RPC 2.0, one message per line:
//   - Input: requests read from the reader passed to Run (stdin in the binary)
//   - Output: responses written to the writer passed to Run (stdout)
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Header metadata (dimensions, format, file size)
//   - image_enhance: Run the engine on a file, optionally with a different
//     clip limit or tile grid, and return a base64 PNG with channel
//     statistics before and after
//   - image_channel_stats: Per-channel means and their spread
//
// # Error Handling
//
//   - -32601: unknown method
//   - -32602: malformed params, unknown tool, or invalid tool arguments
//   - -32000: the tool ran and failed (unreadable file, decode error)
//
// The data field carries the Go error string.
//
// # Usage
//
//	srv := server.New(engine, cfg.MaxImagePixels)
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
