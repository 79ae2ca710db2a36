package probe

import (
	"apiprobe/lib/restyutil"
	"apiprobe/lib/telemetry"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"
)

var ErrUnsupportedMethod = errors.New("unsupported method")

// UnsupportedMethodError is returned for endpoints that are neither GET
// nor POST, it matches ErrUnsupportedMethod.
type UnsupportedMethodError struct {
	Method string
}

func (e UnsupportedMethodError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedMethod.Error(), e.Method)
}

func (e UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

const DefaultTimeout = time.Second * 30

type ClientOptions struct {
	// zero means DefaultTimeout
	Timeout time.Duration
	// skips certificate verification
	Insecure bool
	Headers  map[string]string
	Cookies  map[string]string
	// routes requests through a transport that looks like a browser to
	// cloudflare, for targets behind its bot protection
	CloudflareBypass bool
	// when set every exchange is written to it
	Dump restyutil.InstrumentOutput
}

// Response is everything a report needs from one HTTP exchange.
type Response struct {
	StatusCode int
	Reason     string
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

func (r Response) ContentType() string {
	return strings.ToLower(r.Header.Get("Content-Type"))
}

type Client struct {
	http *resty.Client
}

func newTransport(opts ClientOptions) http.RoundTripper {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	var roundTripper http.RoundTripper = transport
	if opts.CloudflareBypass {
		roundTripper = cloudflarebp.AddCloudFlareByPass(transport)
	}

	// cloudflarebp replaces the tls config, so verification is decided last
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	}
	transport.TLSClientConfig.InsecureSkipVerify = opts.Insecure

	return roundTripper
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetTransport(newTransport(opts))
	client.SetTimeout(timeout)
	client.SetHeaders(opts.Headers)

	cookies := make([]*http.Cookie, 0, len(opts.Cookies))
	for _, name := range sortedKeys(opts.Cookies) {
		cookies = append(cookies, &http.Cookie{
			Name:  name,
			Value: opts.Cookies[name],
		})
	}
	client.SetCookies(cookies)

	telemetry.InstrumentResty(client, "apiprobe/http")
	restyutil.InstrumentClient(client, opts.Dump)

	return &Client{http: client}
}

func reasonPhrase(res *resty.Response) string {
	code := res.StatusCode()
	reason := strings.TrimSpace(strings.TrimPrefix(res.Status(), strconv.Itoa(code)))
	if reason == "" {
		reason = http.StatusText(code)
	}
	return reason
}

// Do sends the endpoint's request. transport failures are returned with
// the stack of the call attached.
func (c *Client) Do(ctx context.Context, endpoint Endpoint) (Response, error) {
	req := c.http.R().SetContext(ctx)

	var res *resty.Response
	var err error
	switch strings.ToUpper(endpoint.Method) {
	case http.MethodGet:
		res, err = req.Get(endpoint.Url)
	case http.MethodPost:
		if endpoint.Body != nil {
			req.SetBody(endpoint.Body)
		}
		res, err = req.Post(endpoint.Url)
	default:
		return Response{}, pkgerrors.WithStack(UnsupportedMethodError{Method: endpoint.Method})
	}
	if err != nil {
		return Response{}, pkgerrors.WithStack(err)
	}

	return Response{
		StatusCode: res.StatusCode(),
		Reason:     reasonPhrase(res),
		Header:     res.Header(),
		Body:       res.Body(),
		Duration:   res.Time(),
	}, nil
}
