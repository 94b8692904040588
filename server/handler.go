package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
)

const namespace = "activity"

var (
	rpcErrType      = reflect.TypeOf((*Error)(nil)).Elem()
	httpRequestType = reflect.TypeOf(&http.Request{})
)

// endpoint is an exported method of Endpoints callable as activity_<name>
type endpoint struct {
	method reflect.Value
	// args are the JSON decoded arguments, the receiver and the
	// *http.Request are not part of them
	args            []reflect.Type
	required        int
	withHTTPRequest bool
}

type handleRequest struct {
	Request
	HttpRequest *http.Request
}

// Handler dispatches activity RPC requests to the Endpoints methods
type Handler struct {
	receiver  reflect.Value
	endpoints map[string]*endpoint
}

func newJSONRpcHandler() *Handler {
	return &Handler{endpoints: map[string]*endpoint{}}
}

// Handle runs the endpoint named by the request and builds its response
func (h *Handler) Handle(req handleRequest) Response {
	log.Debugf("request method: %s, id: %v, params: %s", req.Method, req.ID, string(req.Params))
	start := time.Now()

	result, rpcErr := h.call(req)
	observeRequest(req.Method, rpcErr, time.Since(start))
	if rpcErr != nil {
		log.Debugf("failed call %s, error: (%d) %s, params: %s", req.Method, rpcErr.ErrorCode(), rpcErr.Error(), string(req.Params))
		return NewResponse(req.Request, nil, rpcErr)
	}
	return NewResponse(req.Request, result, nil)
}

func (h *Handler) call(req handleRequest) (result json.RawMessage, rpcErr Error) {
	e, rpcErr := h.lookup(req.Method)
	if rpcErr != nil {
		return nil, rpcErr
	}

	in, rpcErr := e.decodeArgs(req.Params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if e.withHTTPRequest {
		in = append([]reflect.Value{reflect.ValueOf(req.HttpRequest)}, in...)
	}
	in = append([]reflect.Value{h.receiver}, in...)

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("panic handling %s: %v", req.Method, r)
			result, rpcErr = nil, NewServerError(DefaultErrorCode, "runtime error")
		}
	}()
	out := e.method.Call(in)
	if rpcErr := toRPCError(out[1]); rpcErr != nil {
		return nil, rpcErr
	}

	res := out[0].Interface()
	if res == nil {
		return nil, nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		log.Errorf("error encoding %s result: %v", req.Method, err)
		return nil, NewServerError(DefaultErrorCode, "runtime error")
	}
	return data, nil
}

// decodeArgs decodes positional params, missing trailing pointer arguments are nil
func (e *endpoint) decodeArgs(params json.RawMessage) ([]reflect.Value, Error) {
	var raw []json.RawMessage
	trimmed := strings.TrimSpace(string(params))
	if trimmed != "" && trimmed != "null" {
		if err := json.Unmarshal(params, &raw); err != nil {
			return nil, NewServerError(InvalidParamsErrorCode, "params must be an array")
		}
	}
	if len(raw) > len(e.args) {
		return nil, NewServerError(InvalidParamsErrorCode, "too many arguments, want at most %d", len(e.args))
	}
	if len(raw) < e.required {
		return nil, NewServerError(InvalidParamsErrorCode, "missing value for required argument %d", len(raw))
	}

	values := make([]reflect.Value, len(e.args))
	for i, t := range e.args {
		v := reflect.New(t)
		if i < len(raw) {
			if err := json.Unmarshal(raw[i], v.Interface()); err != nil {
				return nil, NewServerError(InvalidParamsErrorCode, "invalid argument %d: %v", i, err)
			}
		}
		values[i] = v.Elem()
	}
	return values, nil
}

func (h *Handler) registerEndpoints(receiver interface{}) {
	rt := reflect.TypeOf(receiver)
	if rt.Kind() != reflect.Ptr || rt.Elem().Kind() != reflect.Struct {
		panic("endpoints must be a pointer to struct")
	}

	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if m.PkgPath != "" {
			continue
		}
		name := namespace + "_" + lowerCaseFirst(m.Name)
		e, err := newEndpoint(m.Func)
		if err != nil {
			panic(fmt.Sprintf("invalid endpoint '%s', error: %v", name, err))
		}
		h.endpoints[name] = e
		log.Debugf("registered endpoint %s", name)
	}
	h.receiver = reflect.ValueOf(receiver)
}

func newEndpoint(fv reflect.Value) (*endpoint, error) {
	ft := fv.Type()
	if ft.NumOut() != 2 {
		return nil, fmt.Errorf("expected 2 return values, got %d", ft.NumOut())
	}
	if !ft.Out(1).Implements(rpcErrType) {
		return nil, fmt.Errorf("second return value is %s instead of %s", ft.Out(1), rpcErrType)
	}

	e := &endpoint{method: fv}
	// first input is the receiver
	first := 1
	if ft.NumIn() > 1 && ft.In(1) == httpRequestType {
		e.withHTTPRequest = true
		first++
	}
	for i := first; i < ft.NumIn(); i++ {
		e.args = append(e.args, ft.In(i))
	}
	e.required = len(e.args)
	for e.required > 0 && e.args[e.required-1].Kind() == reflect.Ptr {
		e.required--
	}
	return e, nil
}

func (h *Handler) lookup(method string) (*endpoint, Error) {
	e, ok := h.endpoints[method]
	if !ok {
		log.Debugf("function '%s' not found", method)
		return nil, NewServerError(NotFoundErrorCode, "the function %s does not exist or is not available", method)
	}
	return e, nil
}

func toRPCError(v reflect.Value) Error {
	if v.IsNil() {
		return nil
	}
	if err, ok := v.Interface().(*ServerError); ok {
		return err
	}
	return NewServerError(DefaultErrorCode, "runtime error")
}

func lowerCaseFirst(str string) string {
	for i, v := range str {
		return string(unicode.ToLower(v)) + str[i+1:]
	}
	return ""
}
