package server

import (
	"encoding/json"
	"net/http"
)

// JSON-RPC 2.0 framing for the /rpc endpoint. Methods mirror the REST
// surface: optimization.start, optimization.status, optimization.cancel.

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      interface{}       `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeRPCError(w, -32700, "Parse error", nil)
		return
	}
	if req.JSONRPC != "2.0" {
		s.writeRPCError(w, -32600, "Invalid Request", req.ID)
		return
	}

	var result interface{}
	var err error
	switch req.Method {
	case "optimization.start":
		result, err = s.rpcStart(req.Params)
	case "optimization.status":
		result, err = s.rpcStatus(req.Params)
	case "optimization.cancel":
		result, err = s.rpcCancel(req.Params)
	default:
		s.writeRPCError(w, -32601, "Method not found", req.ID)
		return
	}
	if err != nil {
		s.writeRPCError(w, -32000, err.Error(), req.ID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"result":  result,
	})
}

func firstParam(params []json.RawMessage, into interface{}) error {
	if len(params) == 0 {
		return errMissingParams
	}
	return json.Unmarshal(params[0], into)
}

var errMissingParams = &paramError{"missing required parameters"}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }

func (s *Server) rpcStart(params []json.RawMessage) (interface{}, error) {
	var req StartRequest
	if err := firstParam(params, &req); err != nil {
		return nil, err
	}
	id, err := s.start(req)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"run_id": id,
		"status": "pending",
	}, nil
}

func (s *Server) rpcStatus(params []json.RawMessage) (interface{}, error) {
	var req struct {
		RunID string `json:"run_id"`
	}
	if err := firstParam(params, &req); err != nil {
		return nil, err
	}
	if req.RunID == "" {
		return nil, &paramError{"run_id is required"}
	}
	return s.status(req.RunID)
}

func (s *Server) rpcCancel(params []json.RawMessage) (interface{}, error) {
	var req struct {
		RunID string `json:"run_id"`
	}
	if err := firstParam(params, &req); err != nil {
		return nil, err
	}
	if req.RunID == "" {
		return nil, &paramError{"run_id is required"}
	}
	if err := s.cancel(req.RunID); err != nil {
		return nil, err
	}
	return map[string]string{"status": "cancellation requested"}, nil
}

func (s *Server) writeRPCError(w http.ResponseWriter, code int, message string, id interface{}) {
	s.logger.Error("rpc request error", map[string]interface{}{
		"code":    code,
		"message": message,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"jsonrpc": "2.0",
		"error":   rpcError{Code: code, Message: message},
		"id":      id,
	})
}
