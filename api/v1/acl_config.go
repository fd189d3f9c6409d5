package v1

import (
	"net/http"

	"github.com/maktaba-io/maktaba/util"
)

var authenticationAllowlist = map[string]bool{
	"/api/v1/signin": true,
}

// isUnauthorizedAllowed returns whether the path can be accessed without
// a session.
func isUnauthorizedAllowed(fullMethodName string) bool {
	if util.HasPrefixes(fullMethodName, "/healthcheck", "/version") {
		return true
	}
	return authenticationAllowlist[fullMethodName]
}

// staffOnlyPrefixes are the management operations: catalogue and member
// mutations, imports, pickup confirmation and loan handling. Students
// keep read access to the catalogue and their own reservations.
var staffOnlyPrefixes = []string{
	"/api/v1/book",
	"/api/v1/member",
	"/api/v1/members",
	"/api/v1/loan",
}

func isOnlyForStaffAllowedPath(method, path string) bool {
	if method == http.MethodGet && util.HasPrefixes(path, "/api/v1/books", "/api/v1/book/") {
		return false
	}
	return util.HasPrefixes(path, staffOnlyPrefixes...)
}
