package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"

	pkgerrors "github.com/pkg/errors"
)

type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureSSL
	FailureTimeout
	FailureConnection
	FailureUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return ""
	case FailureSSL:
		return "ssl"
	case FailureTimeout:
		return "timeout"
	case FailureConnection:
		return "connection"
	case FailureUnexpected:
		return "unexpected"
	}
	return fmt.Sprintf("FailureKind(%d)", int(k))
}

// PanicError carries a value recovered while probing an endpoint.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func isSSLError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var certificateInvalid x509.CertificateInvalidError
	var hostname x509.HostnameError
	var verification *tls.CertificateVerificationError
	var recordHeader tls.RecordHeaderError
	var alert tls.AlertError
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &certificateInvalid) ||
		errors.As(err, &hostname) ||
		errors.As(err, &verification) ||
		errors.As(err, &recordHeader) ||
		errors.As(err, &alert) ||
		strings.Contains(err.Error(), "tls: ")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	var opErr *net.OpError
	var dnsErr *net.DNSError
	return errors.As(err, &opErr) ||
		errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}

// Classify buckets a transport failure for reporting. a failure that is
// both a timeout and a connection error (a dial timeout) is a timeout.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case isSSLError(err):
		return FailureSSL
	case isTimeout(err):
		return FailureTimeout
	case isConnectionError(err):
		return FailureConnection
	}
	return FailureUnexpected
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

func stackTrace(err error) string {
	var tracer stackTracer
	if !errors.As(err, &tracer) {
		err = pkgerrors.WithStack(err)
	}
	return fmt.Sprintf("%+v", err)
}

// RenderFailure turns a transport failure into the lines written in
// place of a response. `insecure` tells whether certificate
// verification was already off.
func RenderFailure(err error, kind FailureKind, insecure bool) []string {
	switch kind {
	case FailureSSL:
		hint := "Try running with --insecure"
		if insecure {
			hint = "Certificate verification is already disabled (--insecure)"
		}
		return []string{fmt.Sprintf("SSL Error: %v", err), hint}
	case FailureConnection:
		return []string{
			fmt.Sprintf("Connection Error: %v", err),
			"Make sure the server is accessible",
		}
	case FailureTimeout:
		return []string{fmt.Sprintf("Timeout Error: %v", err)}
	}

	lines := []string{fmt.Sprintf("Unexpected Error: %T: %v", pkgerrors.Cause(err), err)}
	lines = append(lines, strings.Split(stackTrace(err), "\n")...)
	return lines
}
