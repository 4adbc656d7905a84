//go:build integration

package integration

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hushbox/hushbox"
)

func newTestClient(t *testing.T) *hushbox.Client {
	t.Helper()
	client, err := hushbox.New(baseURL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestShareOpenRoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	secret := &hushbox.Secret{
		Text: "integration round trip payload",
		Files: []hushbox.File{
			{Name: "config.json", Type: "application/json", Data: []byte(`{"region":"eu-west-1"}`)},
			{Name: "blob.bin", Data: bytes.Repeat([]byte{0x5a}, 2048)},
		},
	}

	result, err := client.Share(ctx, secret)
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}
	if !strings.Contains(result.Link, result.ID) {
		t.Errorf("Share() link %q does not contain id %q", result.Link, result.ID)
	}

	opened, err := client.Open(ctx, result.Link, "")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if opened.Text != secret.Text {
		t.Errorf("Open() text = %q, expected %q", opened.Text, secret.Text)
	}
	if len(opened.Files) != 2 {
		t.Fatalf("Open() returned %d files, expected 2", len(opened.Files))
	}
	if opened.Files[0].Name != "config.json" {
		t.Errorf("Open() first file = %q, expected config.json", opened.Files[0].Name)
	}
	if !bytes.Equal(opened.Files[1].Data, secret.Files[1].Data) {
		t.Error("Open() binary file content does not match")
	}
	if opened.ExpiresAt.Before(opened.CreatedAt) {
		t.Error("Open() expiry precedes creation")
	}
}

func TestOneTimeConsumption(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	result, err := client.Share(ctx, &hushbox.Secret{Text: "only once"})
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}

	status, err := client.Status(ctx, result.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.Exists || status.Terminal {
		t.Fatalf("Status() before open = %+v, expected live", status)
	}

	if _, err := client.Open(ctx, result.Link, ""); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if _, err := client.Open(ctx, result.Link, ""); !errors.Is(err, hushbox.ErrSecretGone) {
		t.Errorf("second Open() error = %v, expected ErrSecretGone", err)
	}

	status, err = client.Status(ctx, result.ID)
	if err != nil {
		t.Fatalf("Status() after open error = %v", err)
	}
	if status.Exists || !status.Terminal {
		t.Errorf("Status() after open = %+v, expected terminal", status)
	}
}

func TestMultiViewSurvivesOpens(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	result, err := client.Share(ctx, &hushbox.Secret{Text: "read me twice"},
		hushbox.WithOneTimeView(false),
	)
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		opened, err := client.Open(ctx, result.Link, "")
		if err != nil {
			t.Fatalf("Open() #%d error = %v", i+1, err)
		}
		if opened.Text != "read me twice" {
			t.Errorf("Open() #%d text = %q", i+1, opened.Text)
		}
	}
}

func TestPinLifecycle(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	result, err := client.Share(ctx, &hushbox.Secret{Text: "pin gated"},
		hushbox.WithPin("9931"),
	)
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}

	status, err := client.Status(ctx, result.ID)
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if !status.RequiresPin {
		t.Error("Status() did not report the PIN requirement")
	}

	if _, err := client.Open(ctx, result.Link, ""); !errors.Is(err, hushbox.ErrPinRequired) {
		t.Errorf("Open() without pin error = %v, expected ErrPinRequired", err)
	}
	if _, err := client.Open(ctx, result.Link, "0000"); !errors.Is(err, hushbox.ErrPinMismatch) {
		t.Errorf("Open() with wrong pin error = %v, expected ErrPinMismatch", err)
	}

	// Failed attempts must not consume the secret.
	opened, err := client.Open(ctx, result.Link, "9931")
	if err != nil {
		t.Fatalf("Open() with right pin error = %v", err)
	}
	if opened.Text != "pin gated" {
		t.Errorf("Open() text = %q", opened.Text)
	}
}

func TestBurnBeforeOpen(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	result, err := client.Share(ctx, &hushbox.Secret{Text: "never delivered"})
	if err != nil {
		t.Fatalf("Share() error = %v", err)
	}

	if err := client.Burn(ctx, result.ID); err != nil {
		t.Fatalf("Burn() error = %v", err)
	}

	if _, err := client.Open(ctx, result.Link, ""); !errors.Is(err, hushbox.ErrSecretGone) {
		t.Errorf("Open() after burn error = %v, expected ErrSecretGone", err)
	}

	// Burning again stays silent.
	if err := client.Burn(ctx, result.ID); err != nil {
		t.Errorf("second Burn() error = %v", err)
	}
}

func TestStatusUnknownID(t *testing.T) {
	client := newTestClient(t)
	ctx := testContext(t)

	status, err := client.Status(ctx, strings.Repeat("d4", 32))
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Exists || !status.Terminal {
		t.Errorf("Status() for unknown id = %+v, expected terminal", status)
	}
}
