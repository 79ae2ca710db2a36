package probe

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	method      string
	auth        string
	lang        string
	fetchMode   string
	contentType string
	body        []byte
}

func captureServer(t testing.TB, tls bool) (*httptest.Server, chan capturedRequest) {
	captured := make(chan capturedRequest, 8)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req := capturedRequest{
			method:      r.Method,
			fetchMode:   r.Header.Get("Sec-Fetch-Mode"),
			contentType: r.Header.Get("Content-Type"),
			body:        body,
		}
		if c, err := r.Cookie("z.auth"); err == nil {
			req.auth = c.Value
		}
		if c, err := r.Cookie("z.lang"); err == nil {
			req.lang = c.Value
		}
		captured <- req

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var server *httptest.Server
	if tls {
		server = httptest.NewTLSServer(handler)
	} else {
		server = httptest.NewServer(handler)
	}
	t.Cleanup(server.Close)
	return server, captured
}

func TestClientSendsHeadersCookiesAndBody(t *testing.T) {
	server, captured := captureServer(t, true)

	client := NewClient(ClientOptions{
		Timeout:  time.Second * 5,
		Insecure: true,
		Headers:  DefaultHeaders(),
		Cookies: map[string]string{
			"z.auth": "gHciJPzZYnAxb2dyRxBouRSHYX0FINMyih2N5ULyzlAuq41ypm9aNqFVs1DsTAt2lopulNvu2DiSHFMSmhl2",
			"z.lang": "en",
		},
	})

	res, err := client.Do(context.Background(), DefaultEndpoints(server.URL)[1])
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 200, res.StatusCode)
	require.Equal(t, "OK", res.Reason)
	require.Equal(t, "application/json", res.ContentType())
	require.JSONEq(t, `{"status":"ok"}`, string(res.Body))

	req := <-captured
	require.Equal(t, http.MethodPost, req.method)
	require.Equal(t, "navigate", req.fetchMode)
	require.Equal(t, "application/json", req.contentType)
	require.Equal(t, "gHciJPzZYnAxb2dyRxBouRSHYX0FINMyih2N5ULyzlAuq41ypm9aNqFVs1DsTAt2lopulNvu2DiSHFMSmhl2", req.auth)
	require.Equal(t, "en", req.lang)

	var payload SimulationPayload
	err = json.Unmarshal(req.body, &payload)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, SampleSimulation(), payload)
}

func TestClientGetSendsNoBody(t *testing.T) {
	server, captured := captureServer(t, false)

	client := NewClient(ClientOptions{Timeout: time.Second * 5})
	_, err := client.Do(context.Background(), DefaultEndpoints(server.URL)[0])
	if err != nil {
		t.Fatal(err)
	}

	req := <-captured
	require.Equal(t, http.MethodGet, req.method)
	require.Empty(t, req.body)
}

func TestClientVerifiesCertificatesByDefault(t *testing.T) {
	server, _ := captureServer(t, true)

	client := NewClient(ClientOptions{Timeout: time.Second * 5})
	_, err := client.Do(context.Background(), DefaultEndpoints(server.URL)[0])
	require.Error(t, err)
	require.Equal(t, FailureSSL, Classify(err))
}

func TestClientUnsupportedMethod(t *testing.T) {
	client := NewClient(ClientOptions{})
	_, err := client.Do(context.Background(), Endpoint{
		Name:   "delete_simulation",
		Url:    "http://127.0.0.1:1/",
		Method: http.MethodDelete,
	})
	require.True(t, errors.Is(err, ErrUnsupportedMethod))
	require.Equal(t, FailureUnexpected, Classify(err))

	lines := RenderFailure(err, Classify(err), false)
	require.Equal(t, "Unexpected Error: probe.UnsupportedMethodError: unsupported method: DELETE", lines[0])
}
