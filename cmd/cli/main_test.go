package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestLockPeriod(t *testing.T) {
	var gotPath, gotUser string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.Header.Get("X-User-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"period":{"lock_status":"MONTH_LOCKED"},"locked_vouchers":3,"snapshots":12}`))
	}))
	defer server.Close()

	origURL, origUser := baseURL, userID
	baseURL, userID = server.URL, "chief-accountant"
	defer func() { baseURL, userID = origURL, origUser }()

	out := captureOutput(t, func() {
		lockPeriod("period-2025-12", "MONTH_LOCKED")
	})

	if gotPath != "/api/v1/periods/period-2025-12/lock" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotUser != "chief-accountant" {
		t.Fatalf("unexpected user header: %s", gotUser)
	}
	if !strings.Contains(out, "MONTH_LOCKED") {
		t.Fatalf("expected lock status in output, got %q", out)
	}
}

func TestPrintReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/reports/period-2025-12/trial-balance" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"balanced":true}`))
	}))
	defer server.Close()

	origURL := baseURL
	baseURL = server.URL
	defer func() { baseURL = origURL }()

	out := captureOutput(t, func() {
		printReport("period-2025-12", "trial-balance")
	})

	expected := "{\n  \"balanced\": true\n}\n"
	if out != expected {
		t.Fatalf("unexpected report output:\n%s", out)
	}
}
