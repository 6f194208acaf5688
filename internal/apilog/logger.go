// Package apilog performs outbound third-party HTTP calls and keeps an audit record of each one.
package apilog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/justsurfingit/Resume-Job-Matcher/internal/models"
)

// Store persists audit records.
type Store interface {
	SaveExternalLog(ctx context.Context, entry *models.ExternalLog) error
}

// Call describes one outbound request. RequestData, when set, is sent as the JSON body.
type Call struct {
	Service     string
	Endpoint    string
	Method      string
	RequestData any
	Header      http.Header
	UserID      *uint
}

type Logger struct {
	client *http.Client
	store  Store
	log    *logrus.Logger
}

// New returns a Logger. A nil client means a plain &http.Client{} with no timeout.
func New(client *http.Client, store Store, log *logrus.Logger) *Logger {
	if client == nil {
		client = &http.Client{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{client: client, store: store, log: log}
}

// LogAPICall sends the request and then records it. Transport errors are recorded with
// status 0 and returned unchanged. Audit write failures never reach the caller.
// The returned response body is fully buffered and can be read by the caller.
func (l *Logger) LogAPICall(ctx context.Context, call Call) (*http.Response, error) {
	method := call.Method
	if method == "" {
		method = http.MethodGet
	}

	var reqJSON []byte
	var body io.Reader
	if call.RequestData != nil {
		b, err := json.Marshal(call.RequestData)
		if err != nil {
			l.record(ctx, call.Service, call.Endpoint, method, nil, nil, 0, err, call.UserID)
			return nil, fmt.Errorf("failed to encode request data: %w", err)
		}
		reqJSON = b
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, call.Endpoint, body)
	if err != nil {
		l.record(ctx, call.Service, call.Endpoint, method, reqJSON, nil, 0, err, call.UserID)
		return nil, err
	}
	for k, vs := range call.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if reqJSON != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return l.do(req, call.Service, reqJSON, call.UserID)
}

func (l *Logger) do(req *http.Request, service string, reqJSON []byte, userID *uint) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.String()

	resp, err := l.client.Do(req)
	if err != nil {
		l.record(ctx, service, endpoint, req.Method, reqJSON, nil, 0, err, userID)
		return nil, err
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(respBody))

	var callErr error
	switch {
	case readErr != nil:
		callErr = readErr
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		callErr = fmt.Errorf("%s", resp.Status)
	}
	l.record(ctx, service, endpoint, req.Method, reqJSON, respBody, resp.StatusCode, callErr, userID)

	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %w", readErr)
	}
	return resp, nil
}

func (l *Logger) record(ctx context.Context, service, endpoint, method string, reqJSON, respBody []byte, status int, callErr error, userID *uint) {
	entry := &models.ExternalLog{
		Service:      service,
		Endpoint:     redactEndpoint(endpoint),
		Method:       method,
		RequestData:  jsonOrNil(reqJSON),
		ResponseData: jsonOrNil(respBody),
		StatusCode:   status,
		Success:      callErr == nil && status >= 200 && status <= 299,
		UserID:       userID,
	}
	if callErr != nil {
		msg := callErr.Error()
		entry.ErrorMessage = &msg
	}

	if l.store == nil {
		return
	}
	if err := l.safeSave(ctx, entry); err != nil {
		l.log.WithFields(logrus.Fields{
			"service":  service,
			"endpoint": entry.Endpoint,
			"status":   status,
		}).Warnf("failed to write external call log: %v", err)
	}
}

// safeSave turns a panicking store into an error so the caller's outcome is preserved.
func (l *Logger) safeSave(ctx context.Context, entry *models.ExternalLog) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store panicked: %v", r)
		}
	}()
	return l.store.SaveExternalLog(context.WithoutCancel(ctx), entry)
}

// Doer adapts the logger to clients that accept an http.Client-like Do method.
func (l *Logger) Doer(service string, userID *uint) *Doer {
	return &Doer{logger: l, service: service, userID: userID}
}

type Doer struct {
	logger  *Logger
	service string
	userID  *uint
}

func (d *Doer) Do(req *http.Request) (*http.Response, error) {
	var reqJSON []byte
	if req.Body != nil && req.Body != http.NoBody {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			d.logger.record(req.Context(), d.service, req.URL.String(), req.Method, nil, nil, 0, err, d.userID)
			return nil, err
		}
		reqJSON = b
		req.Body = io.NopCloser(bytes.NewReader(b))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	}
	return d.logger.do(req, d.service, reqJSON, d.userID)
}

func jsonOrNil(b []byte) datatypes.JSON {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || !json.Valid(b) {
		return nil
	}
	return datatypes.JSON(b)
}

var secretParams = []string{"app_key", "api_key", "key", "token"}

func redactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.RawQuery == "" {
		return endpoint
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return endpoint
	}
	u.RawQuery = strings.ReplaceAll(q.Encode(), "+", "%20")
	return u.String()
}
