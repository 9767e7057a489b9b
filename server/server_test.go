package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/medicaments-safety/config"
	"github.com/giygas/medicaments-safety/interfaces"
)

// stubHandler answers every route with its own name.
type stubHandler struct{}

var _ interfaces.HTTPHandler = stubHandler{}

func write(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(name))
	}
}

func (stubHandler) AnalyzePrescription(w http.ResponseWriter, r *http.Request) {
	write("analyze")(w, r)
}

func (stubHandler) MedicineInsight(w http.ResponseWriter, r *http.Request) {
	write("medicine")(w, r)
}

func (stubHandler) ConditionInsight(w http.ResponseWriter, r *http.Request) {
	write("condition")(w, r)
}

func (stubHandler) CheckInteractions(w http.ResponseWriter, r *http.Request) {
	write("interactions")(w, r)
}

func (stubHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	write("health")(w, r)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Address:        "localhost",
		Env:            config.EnvTest,
		LogLevel:       "error",
		MaxRequestBody: 1048576,
		MaxHeaderSize:  1048576,
		RequestTimeout: 5 * time.Second,
	}
}

func TestSetupRoutes(t *testing.T) {
	s := NewServer(testConfig(), stubHandler{})
	defer s.rateLimiter.Stop()

	tests := []struct {
		method       string
		path         string
		expectedCode int
		expectedBody string
	}{
		{http.MethodPost, "/v1/analyze", http.StatusOK, "analyze"},
		{http.MethodGet, "/v1/medicines/Aspirin", http.StatusOK, "medicine"},
		{http.MethodGet, "/v1/conditions/Hypertension", http.StatusOK, "condition"},
		{http.MethodGet, "/v1/interactions?drugs=a,b", http.StatusOK, "interactions"},
		{http.MethodGet, "/health", http.StatusOK, "health"},
		{http.MethodGet, "/v1/analyze", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/v1/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rr := httptest.NewRecorder()
			s.Router().ServeHTTP(rr, req)

			if rr.Code != tt.expectedCode {
				t.Errorf("Expected status %d, got %d", tt.expectedCode, rr.Code)
			}
			if tt.expectedBody != "" && rr.Body.String() != tt.expectedBody {
				t.Errorf("Expected body %q, got %q", tt.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(testConfig(), stubHandler{})
	defer s.rateLimiter.Stop()

	// One routed request so the HTTP series exist.
	s.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_request_total") {
		t.Error("Expected http_request_total in metrics output")
	}
}

func TestRateLimitHeadersOnChargedRoute(t *testing.T) {
	s := NewServer(testConfig(), stubHandler{})
	defer s.rateLimiter.Stop()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("Expected rate limit headers on a charged route")
	}
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer(testConfig(), stubHandler{})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	time.Sleep(100 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Server shutdown should not error: %v", err)
	}

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			t.Errorf("Expected http.ErrServerClosed, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Server should have shut down within 2 seconds")
	}
}
