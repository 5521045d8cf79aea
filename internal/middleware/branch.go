package middleware

import (
	"net/http"
	"strings"
)

// BranchHeader is consulted when the branch query parameter is absent.
const BranchHeader = "X-Branch"

// ResolveBranch picks the branch key from the query string, then the
// X-Branch header, then the fallback.
func ResolveBranch(r *http.Request, fallback string) string {
	if branch := readBranch(r); branch != "" {
		return branch
	}
	return fallback
}

func readBranch(r *http.Request) string {
	if value := strings.TrimSpace(r.URL.Query().Get("branch")); value != "" {
		return value
	}
	return strings.TrimSpace(r.Header.Get(BranchHeader))
}
