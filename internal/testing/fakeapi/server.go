// Package fakeapi runs an in-process imitation of the Segment tracking API
// for tests. It serves POST /v1/{identify,track,page} over TLS, checks the
// write key, and records every request it receives.
package fakeapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// writeKeyCtxKey is the Gin context key holding the authenticated write key.
const writeKeyCtxKey = "write_key"

// Request is one request received by the fake API.
type Request struct {
	Endpoint      string
	WriteKey      string
	Authorization string
	ContentType   string
	CorrelationID string
	Body          []byte
}

// Response is a canned reply for an endpoint.
type Response struct {
	Status int
	Body   string
}

// Server is a fake ingestion API.
type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	requests  []Request
	writeKeys map[string]bool
	overrides map[string]Response
}

// Option configures a Server.
type Option func(*Server)

// WithWriteKeys restricts accepted write keys. Without it any key is accepted.
func WithWriteKeys(keys ...string) Option {
	return func(s *Server) {
		s.writeKeys = make(map[string]bool, len(keys))
		for _, k := range keys {
			s.writeKeys[k] = true
		}
	}
}

// New starts a TLS fake API. Call Close when done.
func New(opts ...Option) *Server {
	s := &Server{overrides: make(map[string]Response)}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = httptest.NewTLSServer(s.router())
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	v1.Use(s.writeKeyMiddleware())
	v1.POST("/:endpoint", s.handleEvent)

	return r
}

// writeKeyMiddleware authenticates the Basic credentials: write key as the
// username, empty password.
func (s *Server) writeKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if !ok || pass != "" || !s.acceptsKey(user) {
			s.record(c, nil)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid write key"})
			return
		}
		c.Set(writeKeyCtxKey, user)
		c.Next()
	}
}

func (s *Server) acceptsKey(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeKeys == nil {
		return key != ""
	}
	return s.writeKeys[key]
}

func (s *Server) handleEvent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	s.record(c, body)

	endpoint := c.Param("endpoint")
	switch endpoint {
	case "identify", "track", "page":
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown endpoint"})
		return
	}

	if !strings.HasPrefix(c.ContentType(), "application/json") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected application/json"})
		return
	}

	if resp, ok := s.override(endpoint); ok {
		c.String(resp.Status, resp.Body)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) record(c *gin.Context, body []byte) {
	user, _, _ := c.Request.BasicAuth()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, Request{
		Endpoint:      c.Param("endpoint"),
		WriteKey:      user,
		Authorization: c.GetHeader("Authorization"),
		ContentType:   c.GetHeader("Content-Type"),
		CorrelationID: c.GetHeader("X-Correlation-ID"),
		Body:          body,
	})
}

func (s *Server) override(endpoint string) (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.overrides[endpoint]
	return resp, ok
}

// Respond makes endpoint answer with status and body from now on.
func (s *Server) Respond(endpoint string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[endpoint] = Response{Status: status, Body: body}
}

// Requests returns a copy of the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Host returns the host:port to use as the data plane host.
func (s *Server) Host() string {
	return strings.TrimPrefix(s.srv.URL, "https://")
}

// Transport returns a round tripper that trusts the server certificate.
func (s *Server) Transport() http.RoundTripper {
	return s.srv.Client().Transport
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}
