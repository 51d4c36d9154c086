//go:build integration

package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest is one call received by the ApiMock.
type RecordedRequest struct {
	Headers http.Header
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is a scripted HTTP server standing in for third-party APIs such as
// the payment gateway. Unscripted routes answer 200 with an empty object.
type ApiMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string]cannedResponse
	requests  map[string][]RecordedRequest
}

// NewApiServer creates a mock with no scripted routes.
func NewApiServer() *ApiMock {
	return &ApiMock{
		responses: map[string]cannedResponse{},
		requests:  map[string][]RecordedRequest{},
	}
}

// Start begins serving on a random local port.
func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

// Close stops the server.
func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

// GetUrl returns the base url of the running server.
func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	a.mu.Lock()
	a.requests[key] = append(a.requests[key], RecordedRequest{Headers: r.Header.Clone(), Body: body})
	resp, ok := a.responses[key]
	a.mu.Unlock()

	if !ok {
		resp = cannedResponse{status: http.StatusOK, body: map[string]any{}}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

// SetResponse scripts the answer for method and path.
func (a *ApiMock) SetResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses[method+" "+path] = cannedResponse{status: status, body: body}
}

// Requests returns the calls received for method and path.
func (a *ApiMock) Requests(method, path string) []RecordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]RecordedRequest, len(a.requests[method+" "+path]))
	copy(out, a.requests[method+" "+path])
	return out
}

// Reset forgets scripted routes and received calls.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.responses = map[string]cannedResponse{}
	a.requests = map[string][]RecordedRequest{}
}
