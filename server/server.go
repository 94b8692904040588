package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync"
	"syscall"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
	"github.com/didip/tollbooth/v6"
)

const (
	maxRequestContentLength = 1024 * 1024 * 5
	contentType             = "application/json"
	banner                  = "zkEVM Tx Tracker"
)

// https://www.jsonrpc.org/historical/json-rpc-over-http.html#http-header
var acceptedContentTypes = []string{contentType, "application/json-rpc", "application/jsonrequest"}

// Server serves the activity JSON-RPC API over HTTP
type Server struct {
	config  Config
	handler *Handler

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer returns a JSON-RPC server exposing endpoints
func NewServer(cfg Config, endpoints *Endpoints) *Server {
	handler := newJSONRpcHandler()
	handler.registerEndpoints(endpoints)

	return &Server{config: cfg, handler: handler}
}

// Handler returns the rate limited HTTP handler of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	lmt := tollbooth.NewLimiter(s.config.MaxRequestsPerIPAndSecond, nil)
	mux.Handle("/", tollbooth.LimitFuncHandler(lmt, s.handle))
	return mux
}

// Start listens on the configured address and blocks serving requests until Stop is called
func (s *Server) Start() error {
	address := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("HTTP server already started")
	}
	lis, err := net.Listen("tcp", address)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to create TCP listener: %w", err)
	}
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadTimeout.Duration,
		ReadTimeout:       s.config.ReadTimeout.Duration,
		WriteTimeout:      s.config.WriteTimeout.Duration,
	}
	s.httpServer = httpServer
	s.mu.Unlock()

	log.Infof("HTTP server started at %s", address)
	if err := httpServer.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("closed HTTP connection: %w", err)
	}
	log.Infof("HTTP server stopped")
	return nil
}

// Stop gracefully shuts the server down, in-flight requests finish first
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	httpServer := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if httpServer == nil {
		return nil
	}
	if err := httpServer.Shutdown(ctx); err != nil {
		return err
	}
	return httpServer.Close()
}

func (s *Server) handle(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", contentType)
	if origin := s.config.allowOrigin(req.Header.Get("Origin")); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

	switch req.Method {
	case http.MethodOptions:
		return
	case http.MethodGet:
		if _, err := w.Write([]byte(banner)); err != nil {
			log.Error(err)
		}
		return
	}

	start := time.Now()
	status, size := s.serve(w, req)
	s.logRequest(req, start, status, size)
}

// serve answers a single or batch request, it returns the HTTP status and
// the size of the written body
func (s *Server) serve(w http.ResponseWriter, req *http.Request) (int, int) {
	if code, err := validateRequest(req); err != nil {
		return writeInvalidRequest(w, err, code)
	}

	data, err := io.ReadAll(io.LimitReader(req.Body, maxRequestContentLength))
	if err != nil {
		return writeError(w, err)
	}
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return writeInvalidRequest(w, errors.New("empty request body"), http.StatusBadRequest)
	}

	var reply interface{}
	if data[0] == '[' {
		requests, status, err := s.parseBatch(data)
		if err != nil {
			return writeInvalidRequest(w, err, status)
		}
		responses := make([]Response, 0, len(requests))
		for _, request := range requests {
			responses = append(responses, s.handler.Handle(handleRequest{Request: request, HttpRequest: req}))
		}
		reply = responses
	} else {
		var request Request
		if err := json.Unmarshal(data, &request); err != nil {
			return writeInvalidRequest(w, errors.New("invalid json object request body"), http.StatusBadRequest)
		}
		reply = s.handler.Handle(handleRequest{Request: request, HttpRequest: req})
	}

	respBytes, err := json.Marshal(reply)
	if err != nil {
		return writeError(w, err)
	}
	if _, err := w.Write(respBytes); err != nil {
		return writeError(w, err)
	}
	return http.StatusOK, len(respBytes)
}

func (s *Server) parseBatch(data []byte) ([]Request, int, error) {
	if !s.config.BatchRequestsEnabled {
		return nil, http.StatusBadRequest, ErrBatchRequestsDisabled
	}

	var requests []Request
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, http.StatusBadRequest, errors.New("invalid json array request body")
	}
	if s.config.BatchRequestsLimit > 0 && len(requests) > int(s.config.BatchRequestsLimit) {
		return nil, http.StatusRequestEntityTooLarge, ErrBatchRequestsLimitExceeded
	}
	return requests, http.StatusOK, nil
}

// validateRequest returns a non-zero response code and error message if the
// request is invalid.
func validateRequest(req *http.Request) (int, error) {
	if req.Method != http.MethodPost {
		return http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", req.Method)
	}

	if req.ContentLength > maxRequestContentLength {
		return http.StatusRequestEntityTooLarge, fmt.Errorf("content length too large (%d > %d)", req.ContentLength, maxRequestContentLength)
	}

	if mt, _, err := mime.ParseMediaType(req.Header.Get("content-type")); err == nil {
		for _, accepted := range acceptedContentTypes {
			if accepted == mt {
				return 0, nil
			}
		}
	}
	return http.StatusUnsupportedMediaType, fmt.Errorf("invalid content type, only %s is supported", contentType)
}

func writeInvalidRequest(w http.ResponseWriter, err error, code int) (int, int) {
	log.Debugf("invalid request, error: %v", err)
	http.Error(w, err.Error(), code)
	return code, 0
}

func writeError(w http.ResponseWriter, err error) (int, int) {
	if errors.Is(err, syscall.EPIPE) {
		// client went away
		return http.StatusInternalServerError, 0
	}

	log.Errorf("error processing request, error: %v", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
	return http.StatusInternalServerError, 0
}

// RPCErrorResponse builds the error returned by an endpoint, err is only logged
func RPCErrorResponse(code int, message string, err error, logError bool) (interface{}, Error) {
	if logError {
		if err != nil {
			log.Debugf("%v: %v", message, err)
		} else {
			log.Debug(message)
		}
	}
	return nil, NewServerError(code, message)
}

func (s *Server) logRequest(r *http.Request, start time.Time, httpStatus, dataLen int) {
	if !s.config.EnableHttpLog {
		return
	}

	log.Infof("%s - - %s \"%s %s %s\" %d %d \"%s\" \"%s\"",
		r.RemoteAddr,
		start.Format("[02/Jan/2006:15:04:05 -0700]"),
		r.Method,
		r.URL.Path,
		r.Proto,
		httpStatus,
		dataLen,
		r.Host,
		r.UserAgent(),
	)
}
