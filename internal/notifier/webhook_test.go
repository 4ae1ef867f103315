package notifier

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier_Notify(t *testing.T) {
	var received webhookPayload
	var signature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		signature = r.Header.Get("X-Signature-256")
		assert.Equal(t, "sha256="+computeHMAC(body, []byte("s3cret")), signature)
		require.NoError(t, json.Unmarshal(body, &received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, "s3cret")
	assert.Equal(t, "webhook", n.Name())
	require.NoError(t, n.Notify(context.Background(), "report", writeImage(t)))

	assert.Equal(t, "price_report", received.Event)
	assert.Equal(t, "report", received.Text)
	assert.Equal(t, "graf.png", received.ImageName)
	img, err := base64.StdEncoding.DecodeString(received.ImagePNG)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(img))
	assert.NotEmpty(t, received.Timestamp)
}

func TestWebhookNotifier_NoSecretNoSignature(t *testing.T) {
	var hasSignature bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasSignature = r.Header.Get("X-Signature-256") != ""
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, NewWebhookNotifier(server.URL, "").Notify(context.Background(), "x", ""))
	assert.False(t, hasSignature)
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, "").Notify(context.Background(), "x", "")
	var ne *NotifyError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, err.Error(), "status 503")
}
