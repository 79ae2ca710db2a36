package telemetry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestInstrumentHeadersRedactsSecrets(t *testing.T) {
	headers := http.Header{}
	headers.Set("Cookie", "z.auth=secret")
	headers.Set("Accept-Language", "pt-BR,pt;q=0.9")
	headers.Add("Set-Cookie", "a=1")
	headers.Add("Set-Cookie", "b=2")

	var attrs []attribute.KeyValue
	instrumentHeaders(&attrs, "request", headers)

	values := map[string]string{}
	for _, a := range attrs {
		values[string(a.Key)] = a.Value.AsString()
	}
	require.Equal(t, redacted, values["request/header: Cookie"])
	require.Equal(t, "pt-BR,pt;q=0.9", values["request/header: Accept-Language"])
	require.Equal(t, redacted, values["request/header: Set-Cookie (0)"])
	require.Equal(t, redacted, values["request/header: Set-Cookie (1)"])
}
