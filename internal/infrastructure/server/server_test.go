package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/lingolive/internal/adapter/connectrpc"
	"github.com/eslsoft/lingolive/internal/entity"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
)

type rejectAll struct{}

func (rejectAll) Verify(string) (entity.Account, error) {
	return entity.Account{}, entity.ErrUnauthenticated
}

func newTestHTTP(t *testing.T) *httptest.Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	cfg := &config.Config{Server: config.ServerConfig{CORSOrigins: []string{"https://app.example"}}}
	srv := NewServer(cfg, logger, []connectrpc.Service{
		connectrpc.NewCatalogService(),
		connectrpc.NewRewardService(nil),
	}, rejectAll{})
	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)
	return hs
}

func post(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServerRoutesPublicAndProtected(t *testing.T) {
	hs := newTestHTTP(t)

	if resp := post(t, hs.URL+"/"+connectrpc.CatalogServiceName+"/StoryModes"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected public catalog to succeed, got %d", resp.StatusCode)
	}
	if resp := post(t, hs.URL+"/"+connectrpc.RewardServiceName+"/GetStatus"); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestServerHealthz(t *testing.T) {
	hs := newTestHTTP(t)
	resp, err := http.Get(hs.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
}

func TestServerCORSPreflight(t *testing.T) {
	hs := newTestHTTP(t)
	req, _ := http.NewRequest(http.MethodOptions, hs.URL+"/"+connectrpc.RewardServiceName+"/GetStatus", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("unexpected allow origin %q", got)
	}
	if got := strings.ToLower(resp.Header.Get("Access-Control-Allow-Headers")); !strings.Contains(got, "authorization") {
		t.Fatalf("authorization not allowed: %q", got)
	}
}
