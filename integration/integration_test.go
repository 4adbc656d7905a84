//go:build integration

// Package integration exercises the SDK against a real server over HTTP.
//
// With HUSHBOX_URL set (directly or via a .env at the project root) the
// tests target that server. Without it they spin up an in-process server
// backed by the memory store, so the suite is self-contained:
//
//	go test -tags integration ./integration/
package integration

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/hushbox/hushbox/server"
)

var baseURL string

func TestMain(m *testing.M) {
	if err := godotenv.Load("../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	baseURL = os.Getenv("HUSHBOX_URL")
	if baseURL != "" {
		os.Stderr.WriteString("Running integration tests against " + baseURL + "\n")
		os.Exit(m.Run())
	}

	config := server.NewDefaultConfig()
	config.LogLevel = uint32(logrus.ErrorLevel)
	config.RateLimit.Enabled = false

	srv, err := server.New(config)
	if err != nil {
		os.Stderr.WriteString("Failed to build in-process server: " + err.Error() + "\n")
		os.Exit(1)
	}
	ts := httptest.NewServer(srv.Router())
	baseURL = ts.URL
	os.Stderr.WriteString("Running integration tests against in-process server\n")

	code := m.Run()
	ts.Close()
	_ = srv.Stop()
	os.Exit(code)
}
