package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEndpoints struct{}

func (testEndpoints) unexported() {}

func (*testEndpoints) Echo(a string, b *int) (interface{}, Error) {
	if b == nil {
		return a, nil
	}
	return map[string]interface{}{"a": a, "b": *b}, nil
}

func (*testEndpoints) Remote(r *http.Request) (interface{}, Error) {
	return r.RemoteAddr, nil
}

func (*testEndpoints) Fail() (interface{}, Error) {
	return RPCErrorResponse(UnknownTransactionErrorCode, "nope", nil, false)
}

func (*testEndpoints) Explode() (interface{}, Error) {
	panic("boom")
}

func TestHandler(t *testing.T) {
	h := newJSONRpcHandler()
	h.registerEndpoints(&testEndpoints{})

	type testCase struct {
		Name           string
		Method         string
		Params         string
		ExpectedResult string
		ExpectedCode   int
	}

	testCases := []testCase{
		{Name: "all arguments", Method: "activity_echo", Params: `["x", 2]`, ExpectedResult: `{"a":"x","b":2}`},
		{Name: "optional argument omitted", Method: "activity_echo", Params: `["x"]`, ExpectedResult: `"x"`},
		{Name: "optional argument null", Method: "activity_echo", Params: `["x", null]`, ExpectedResult: `"x"`},
		{Name: "missing required argument", Method: "activity_echo", Params: `[]`, ExpectedCode: InvalidParamsErrorCode},
		{Name: "too many arguments", Method: "activity_echo", Params: `["x", 1, 2]`, ExpectedCode: InvalidParamsErrorCode},
		{Name: "wrong argument type", Method: "activity_echo", Params: `[1]`, ExpectedCode: InvalidParamsErrorCode},
		{Name: "params object", Method: "activity_echo", Params: `{"a":"x"}`, ExpectedCode: InvalidParamsErrorCode},
		{Name: "http request is injected", Method: "activity_remote", Params: `[]`, ExpectedResult: `"10.0.0.1:1234"`},
		{Name: "endpoint error", Method: "activity_fail", ExpectedCode: UnknownTransactionErrorCode},
		{Name: "panic", Method: "activity_explode", ExpectedCode: DefaultErrorCode},
		{Name: "unexported method", Method: "activity_unexported", ExpectedCode: NotFoundErrorCode},
		{Name: "other namespace", Method: "eth_echo", Params: `["x"]`, ExpectedCode: NotFoundErrorCode},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			httpRequest := &http.Request{RemoteAddr: "10.0.0.1:1234"}
			res := h.Handle(handleRequest{
				Request:     Request{JSONRPC: "2.0", ID: float64(7), Method: tc.Method, Params: json.RawMessage(tc.Params)},
				HttpRequest: httpRequest,
			})

			assert.Equal(t, "2.0", res.JSONRPC)
			assert.Equal(t, float64(7), res.ID)
			if tc.ExpectedCode != 0 {
				require.NotNil(t, res.Error)
				assert.Equal(t, tc.ExpectedCode, res.Error.Code)
				assert.Nil(t, res.Result)
				return
			}
			require.Nil(t, res.Error)
			assert.JSONEq(t, tc.ExpectedResult, string(res.Result))
		})
	}
}

func TestRegisterEndpointsRejectsInvalidSignatures(t *testing.T) {
	assert.Panics(t, func() { newJSONRpcHandler().registerEndpoints(testEndpoints{}) })
	assert.Panics(t, func() { newJSONRpcHandler().registerEndpoints(&invalidEndpoints{}) })
}

type invalidEndpoints struct{}

func (*invalidEndpoints) Broken() error { return nil }
