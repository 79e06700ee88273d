package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGetString_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewClient().GetString(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestGetString_SendsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := NewClient().GetString(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q", body)
	}
	if gotUA == "" || gotUA == "Go-http-client/1.1" {
		t.Errorf("User-Agent not overridden: %q", gotUA)
	}
	if gotLang == "" {
		t.Error("Accept-Language header missing")
	}
}

func TestDownloadFile_AtomicRename(t *testing.T) {
	payload := []byte("mp3 bytes here")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "book.mp3")
	if err := NewClient().DownloadFile(context.Background(), srv.URL, dest, nil); err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("content mismatch: %q", data)
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error("temp .part file should be gone after success")
	}
}

func TestDownloadFile_FailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "book.mp3")
	if err := NewClient().DownloadFile(context.Background(), srv.URL, dest, nil); err == nil {
		t.Fatal("expected error for 500 response")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("failed download must not leave a file under the final name")
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Error("failed download must not leave a .part file")
	}
}
