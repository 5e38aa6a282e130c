package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Thanks to:
// https://github.com/kjk/go-cookbook/tree/master/embed-build-number

func servePlainText(w http.ResponseWriter, s string) {
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Length", strconv.Itoa(len(s)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s)) // nolint
}

// Debug dumps the request line, its headers and build information.
func Debug(repoURL, sha1ver, buildtime string) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		a := []string{fmt.Sprintf("url: %s %s", r.Method, r.RequestURI)}

		keys := make([]string, 0, len(r.Header))
		for k := range r.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		a = append(a, "Headers:")
		for _, k := range keys {
			v := r.Header[k]
			switch len(v) {
			case 0:
				a = append(a, "  "+k)
			case 1:
				a = append(a, fmt.Sprintf("  %s: %v", k, v[0]))
			default:
				a = append(a, "  "+k+":")
				for _, v2 := range v {
					a = append(a, "    "+v2)
				}
			}
		}

		a = append(a, "")
		a = append(a, fmt.Sprintf("ver: %s/commit/%s", repoURL, sha1ver))
		a = append(a, fmt.Sprintf("built on: %s", buildtime))

		servePlainText(rw, strings.Join(a, "\n"))
	})
}
