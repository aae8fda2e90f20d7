package server_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jpappel/qsimp/pkg/query"
	"github.com/jpappel/qsimp/pkg/server"
)

func TestMux_Simplify(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := server.NewMux(query.DefaultParseOptions(), logger)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		want        string
	}{
		{
			"query string",
			"text/plain",
			"+(+a +b) +c",
			http.StatusOK,
			`{"type":"bool","clauses":[{"occur":"must","query":{"type":"term","field":"text","term":"a"}},{"occur":"must","query":{"type":"term","field":"text","term":"b"}},{"occur":"must","query":{"type":"term","field":"text","term":"c"}}]}` + "\n",
		},
		{
			"json tree",
			"application/json; charset=utf-8",
			`{"type":"bool","clauses":[{"occur":"must","query":{"type":"bool","clauses":[{"occur":"must","query":{"type":"term","field":"f","term":"a"}}]}}]}`,
			http.StatusOK,
			`{"type":"bool","clauses":[{"occur":"must","query":{"type":"term","field":"f","term":"a"}}]}` + "\n",
		},
		{
			"yaml tree",
			"application/yaml",
			"type: bool\nclauses:\n  - occur: should\n    query: {type: term, field: f, term: a}\n  - occur: should\n    query: {type: term, field: f, term: a}\n",
			http.StatusOK,
			`{"type":"bool","clauses":[{"occur":"should","query":{"type":"term","field":"f","term":"a"}}]}` + "\n",
		},
		{"bad query", "text/plain", "(a", http.StatusBadRequest, ""},
		{"bad json", "application/json", `{"type":"term"}`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/simplify", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.want != "" && rec.Body.String() != tt.want {
				t.Errorf("Body = %s, want %s", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestMux_Info(t *testing.T) {
	mux := server.NewMux(query.DefaultParseOptions(), slog.Default())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "/simplify") {
		t.Errorf("Info page does not mention /simplify: %s", rec.Body.String())
	}
}
