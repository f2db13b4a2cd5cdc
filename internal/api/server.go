// Package api serves MDStudio-style methods over JSON-RPC/HTTP. The echo
// server is a development endpoint for the CLI.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
)

// MethodFunc handles one method call. params holds the decoded payload.
type MethodFunc func(params map[string]interface{}) (interface{}, error)

// EchoServer answers every call with the URI and keyword arguments it
// received, unless a handler is registered for the method.
type EchoServer struct {
	mux *http.ServeMux

	mu       sync.RWMutex
	handlers map[string]MethodFunc
}

// NewEchoServer creates a new echo server.
func NewEchoServer() *EchoServer {
	s := &EchoServer{
		mux:      http.NewServeMux(),
		handlers: make(map[string]MethodFunc),
	}
	s.routes()
	return s
}

func (s *EchoServer) routes() {
	s.mux.HandleFunc("POST /", s.handleCall)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Handle registers fn for method, replacing the echo behaviour.
func (s *EchoServer) Handle(method string, fn MethodFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = fn
}

func (s *EchoServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *EchoServer) handleCall(w http.ResponseWriter, r *http.Request) {
	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, NewJSONRPCErrorResponse(nil, ParseError, err.Error()))
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeJSON(w, NewJSONRPCErrorResponse(req.ID, InvalidRequest, "invalid request"))
		return
	}

	params := map[string]interface{}{}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeJSON(w, NewJSONRPCErrorResponse(req.ID, InvalidParams, err.Error()))
			return
		}
	}
	slog.Info("call received", "method", req.Method, "keywords", len(params))

	s.mu.RLock()
	fn, ok := s.handlers[req.Method]
	s.mu.RUnlock()
	if !ok {
		fn = echo(req.Method)
	}

	result, err := fn(params)
	if err != nil {
		writeJSON(w, NewJSONRPCErrorResponse(req.ID, InternalError, err.Error()))
		return
	}
	writeJSON(w, NewJSONRPCResponse(req.ID, result))
}

func echo(method string) MethodFunc {
	return func(params map[string]interface{}) (interface{}, error) {
		kwargs := make(map[string]interface{}, len(params))
		for k, v := range params {
			if k != "uri" {
				kwargs[k] = v
			}
		}
		return map[string]interface{}{
			"uri":    method,
			"kwargs": kwargs,
		}, nil
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
