package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*TelegramClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewTelegramClient(srv.URL, "test-token", "-100", time.Second), srv
}

func TestSendMessage(t *testing.T) {
	var gotPath, gotText, gotParseMode, gotChat string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotText = r.FormValue("text")
		gotParseMode = r.FormValue("parse_mode")
		gotChat = r.FormValue("chat_id")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	if err := client.SendMessage(context.Background(), "*hello*"); err != nil {
		t.Fatalf("send message: %v", err)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotText != "*hello*" || gotParseMode != "Markdown" || gotChat != "-100" {
		t.Fatalf("unexpected form: text=%q parse_mode=%q chat=%q", gotText, gotParseMode, gotChat)
	}
}

func TestSendDocument(t *testing.T) {
	var gotFilename, gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer func() { _ = file.Close() }()
		gotFilename = header.Filename
		data, err := io.ReadAll(file)
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		gotBody = string(data)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	err := client.SendDocument(context.Background(), "chek.html", []byte("<html></html>"), "")
	if err != nil {
		t.Fatalf("send document: %v", err)
	}
	if gotFilename != "chek.html" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
	if gotBody != "<html></html>" {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	})
	err := client.SendMessage(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
}

func TestSendMessageNotOKBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false}`))
	})
	if err := client.SendMessage(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for ok=false")
	}
}

func TestUnconfiguredClient(t *testing.T) {
	client := &TelegramClient{}
	if client.Configured() {
		t.Fatal("empty client must not be configured")
	}
	if err := client.SendMessage(context.Background(), "hi"); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}
