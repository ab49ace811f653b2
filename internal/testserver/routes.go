package testserver

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/toyz/pretend/pkg/pretend/codec"
)

// TestData is the payload echoed by the JSON and form routes.
type TestData struct {
	First  string `json:"first" schema:"first"`
	Second int    `json:"second" schema:"second"`
}

// ErrorData is the error payload of the JSON status route.
type ErrorData struct {
	Message string `json:"message"`
}

const helloWorld = "Hello World"

// Routes returns the httpbin-like route table:
//
//	GET|POST|PUT|PATCH|DELETE /{verb}   "Hello World"
//	GET  /query                         query map as JSON
//	GET  /headers                       request headers as JSON
//	POST /post/string                   echoes the body
//	POST /post/json                     echoes a TestData
//	POST /post/form                     TestData form as JSON
//	GET  /status/{status}/text          "Hello World" or "Error" with the status
//	GET  /status/{status}/json          TestData or ErrorData with the status
func Routes() []Route {
	hello := func(*Exchange) Reply { return text(http.StatusOK, helloWorld) }

	return []Route{
		{http.MethodGet, "/get", hello},
		{http.MethodPost, "/post", hello},
		{http.MethodPut, "/put", hello},
		{http.MethodPatch, "/patch", hello},
		{http.MethodDelete, "/delete", hello},
		{http.MethodGet, "/query", query},
		{http.MethodGet, "/headers", headers},
		{http.MethodPost, "/post/string", postString},
		{http.MethodPost, "/post/json", postJSON},
		{http.MethodPost, "/post/form", postForm},
		{http.MethodGet, "/status/{status}/text", statusText},
		{http.MethodGet, "/status/{status}/json", statusJSON},
	}
}

func text(status int, body string) Reply {
	return Reply{
		Status: status,
		Header: http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
		Body:   []byte(body),
	}
}

func jsonReply(status int, v any) Reply {
	data, err := codec.Std().Marshal(v)
	if err != nil {
		return text(http.StatusInternalServerError, err.Error())
	}
	return Reply{
		Status: status,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   data,
	}
}

func query(ex *Exchange) Reply {
	out := make(map[string]string, len(ex.Query))
	for k := range ex.Query {
		out[k] = ex.Query.Get(k)
	}
	return jsonReply(http.StatusOK, out)
}

func headers(ex *Exchange) Reply {
	return jsonReply(http.StatusOK, lowerHeaders(ex.Header))
}

func postString(ex *Exchange) Reply {
	return text(http.StatusOK, string(ex.Body))
}

func postJSON(ex *Exchange) Reply {
	var data TestData
	if err := codec.Std().Unmarshal(ex.Body, &data); err != nil {
		return text(http.StatusBadRequest, err.Error())
	}
	return jsonReply(http.StatusOK, data)
}

func postForm(ex *Exchange) Reply {
	values, err := url.ParseQuery(string(ex.Body))
	if err != nil {
		return text(http.StatusBadRequest, err.Error())
	}
	second, err := strconv.Atoi(values.Get("second"))
	if err != nil {
		return text(http.StatusBadRequest, "second: "+err.Error())
	}
	return jsonReply(http.StatusOK, TestData{First: values.Get("first"), Second: second})
}

func parseStatus(ex *Exchange) (int, bool) {
	status, err := strconv.Atoi(ex.Params["status"])
	if err != nil || status < 100 || status > 999 {
		return 0, false
	}
	return status, true
}

func statusText(ex *Exchange) Reply {
	status, ok := parseStatus(ex)
	if !ok {
		return text(http.StatusBadRequest, "invalid status")
	}
	body := helloWorld
	if status >= 400 {
		body = "Error"
	}
	return Reply{
		Status: status,
		Header: http.Header{"Content-Type": {"plain/text"}, "X-Lovely": {"yes"}},
		Body:   []byte(body),
	}
}

func statusJSON(ex *Exchange) Reply {
	status, ok := parseStatus(ex)
	if !ok {
		return text(http.StatusBadRequest, "invalid status")
	}
	var reply Reply
	if status < 400 {
		reply = jsonReply(status, TestData{First: helloWorld, Second: 123})
	} else {
		reply = jsonReply(status, ErrorData{Message: "Error"})
	}
	reply.Header.Set("X-Lovely", "yes")
	return reply
}
