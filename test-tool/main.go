// Command test-tool is a WASI method module used to exercise wasm://
// endpoints. It answers the first JSON-RPC request on stdin with the method
// URI and keyword arguments it received.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

type Request struct {
	JSONRPC string                     `json:"jsonrpc"`
	ID      json.RawMessage            `json:"id"`
	Method  string                     `json:"method"`
	Params  map[string]json.RawMessage `json:"params"`
}

type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func main() {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var req Request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
			continue
		}

		resp := Response{JSONRPC: "2.0", ID: req.ID}
		if req.Method == "" {
			resp.Error = &RPCError{Code: -32600, Message: "missing method"}
		} else {
			kwargs := make(map[string]json.RawMessage, len(req.Params))
			for k, v := range req.Params {
				if k != "uri" {
					kwargs[k] = v
				}
			}
			resp.Result = map[string]interface{}{
				"uri":    req.Method,
				"kwargs": kwargs,
			}
		}
		data, _ := json.Marshal(resp)
		fmt.Println(string(data))
		return
	}
}
