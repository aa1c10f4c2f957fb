package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"testing"
)

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{"canceled", context.Canceled, ErrTypeCanceled, false},
		{"deadline", context.DeadlineExceeded, ErrTypeTimeout, true},
		{"dns", &net.DNSError{Name: "api.example", Err: "no such host"}, ErrTypeDNS, false},
		{
			"refused",
			&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			ErrTypeConnectionRefused, true,
		},
		{
			"url wrapped",
			&url.Error{Op: "Get", URL: "http://x", Err: &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}},
			ErrTypeConnectionRefused, true,
		},
		{"generic", errors.New("reset"), ErrTypeNetwork, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
		})
	}

	if ClassifyNetworkError(nil) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestErrorStatusCode(t *testing.T) {
	timeout := &Error{Type: ErrTypeTimeout}
	if timeout.StatusCode() != http.StatusRequestTimeout {
		t.Errorf("timeout StatusCode() = %d, want 408", timeout.StatusCode())
	}

	notFound := NewHTTPError(http.StatusNotFound, nil)
	if notFound.StatusCode() != http.StatusNotFound || notFound.Retryable {
		t.Errorf("404 = %+v", notFound)
	}
	if _, err := notFound.JSON(); err == nil {
		t.Error("empty body should not decode")
	}
	if !IsNetworkError(ClassifyNetworkError(errors.New("x"))) {
		t.Error("generic failure is a network error")
	}
	if IsNetworkError(notFound) {
		t.Error("http error is not a network error")
	}
}
