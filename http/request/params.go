package request

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// RouteInt32Param returns an URL route parameter as int32.
func RouteInt32Param(r *http.Request, param string) int32 {
	vars := mux.Vars(r)
	value, err := strconv.ParseInt(vars[param], 10, 32)
	if err != nil {
		return 0
	}

	if value < 0 {
		return 0
	}

	return int32(value)
}

// QueryStringParam returns a query string parameter, or the default.
func QueryStringParam(r *http.Request, param, defaultValue string) string {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue
	}
	return value
}

// QueryIntParam returns a query string parameter as int, or the default.
func QueryIntParam(r *http.Request, param string, defaultValue int) int {
	value, err := strconv.Atoi(r.URL.Query().Get(param))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
