package apilog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/identity"
)

// CallFromRequest derives a Call from an inbound request. RequestData is nil when the body
// is empty and UserID is nil when no user was resolved. The body stays readable afterwards.
func CallFromRequest(c *gin.Context, service string) (Call, error) {
	call := Call{
		Service:  service,
		Endpoint: c.Request.URL.Path,
		Method:   c.Request.Method,
	}
	if id, ok := identity.UserID(c); ok {
		call.UserID = &id
	}

	if c.Request.Body == nil {
		return call, nil
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body.Close()
	if err != nil {
		return call, fmt.Errorf("failed to read request body: %w", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	if len(bytes.TrimSpace(body)) == 0 {
		return call, nil
	}
	var data json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return call, fmt.Errorf("request body is not valid JSON: %w", err)
	}
	call.RequestData = data
	return call, nil
}
