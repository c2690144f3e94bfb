package restyutil

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

// writeHeaders writes one "<prefix>Key: Value" line per header value,
// keys sorted so dumps of the same exchange diff cleanly.
func writeHeaders(out *strings.Builder, prefix string, headers http.Header) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range headers[k] {
			fmt.Fprintf(out, "%s%s: %s\n", prefix, k, v)
		}
	}
}

func requestBody(req *http.Request) string {
	if req == nil || req.GetBody == nil {
		return ""
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Sprintf("(failed to get request body: %s)", err)
	}
	contents, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("(failed to read request body: %s)", err)
	}
	return string(contents)
}

// formatHttpMessage renders an exchange the way `curl -v` does, request
// lines prefixed with "> " and response lines with "< ", each followed
// by its body.
func formatHttpMessage(res *resty.Response) string {
	var out strings.Builder

	fmt.Fprintf(&out, "> %s %s\n", res.Request.Method, res.Request.URL)
	if res.Request.RawRequest != nil {
		writeHeaders(&out, "> ", res.Request.RawRequest.Header)
	}
	if body := requestBody(res.Request.RawRequest); body != "" {
		fmt.Fprintf(&out, "\n%s\n", body)
	}

	finalUrl := res.Request.URL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		finalUrl = res.RawResponse.Request.URL.String()
	}
	fmt.Fprintf(&out, "\n< %s %s\n", res.Status(), finalUrl)
	writeHeaders(&out, "< ", res.Header())
	fmt.Fprintf(&out, "\n%s", res.String())

	return out.String()
}
