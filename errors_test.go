package twitterapi

import (
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errorClass
	}{
		{200, errNone},
		{201, errNone},
		{400, errClient},
		{401, errAuth},
		{403, errAuth},
		{404, errClient},
		{429, errRateLimited},
		{500, errServer},
		{502, errServer},
		{503, errServer},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestErrorClassRetryable(t *testing.T) {
	tests := []struct {
		class errorClass
		want  bool
	}{
		{errNone, false},
		{errRateLimited, true},
		{errServer, true},
		{errAuth, false},
		{errClient, false},
	}

	for _, tt := range tests {
		if got := tt.class.retryable(); got != tt.want {
			t.Errorf("retryable(%v) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestParseRateLimitReset(t *testing.T) {
	got := parseRateLimitReset("1700000000")
	want := time.Unix(1700000000, 0)
	if !got.Equal(want) {
		t.Errorf("parseRateLimitReset(unix) = %v, want %v", got, want)
	}

	// Invalid header falls back to a short wait from now.
	before := time.Now()
	got = parseRateLimitReset("not-a-timestamp")
	if got.Before(before) || got.After(before.Add(10*time.Second)) {
		t.Errorf("parseRateLimitReset(invalid) = %v, want ~5s after %v", got, before)
	}
}

func TestIsBlockedLoginMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Account temporarily blocked", true},
		{"Please wait a few minutes", true},
		{"BLOCKED", true},
		{"invalid credentials", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isBlockedLoginMessage(tt.msg); got != tt.want {
			t.Errorf("isBlockedLoginMessage(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &apiError{Endpoint: "AdvancedSearch", Status: 500, Body: "boom"}
	want := "AdvancedSearch HTTP 500: boom"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTruncateBytes(t *testing.T) {
	if got := truncateBytes([]byte("short"), 10); got != "short" {
		t.Errorf("truncateBytes(short) = %q", got)
	}
	if got := truncateBytes([]byte("0123456789abc"), 10); got != "0123456789..." {
		t.Errorf("truncateBytes(long) = %q", got)
	}
}
