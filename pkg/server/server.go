package server

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"sync"

	"github.com/jpappel/qsimp/pkg/query"
)

type Server interface {
	ListenAndServe() error
	Shutdown(context.Context) error
}

func info(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`
	<h1>qsimp Server</h1>
	<p>POST a query string, or a json or yaml query tree, to <pre>/simplify</pre></p>
	`))
}

// Decode a request body by its content type, anything other than json or
// yaml is treated as a query string.
func decodeBody(contentType string, body []byte, opts query.ParseOptions) (*query.BooleanQuery, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch mediaType {
	case "application/json":
		return query.DecodeJSON(body)
	case "application/yaml", "application/x-yaml", "text/yaml":
		return query.DecodeYAML(body)
	default:
		return query.Parse(query.Lex(string(body)), opts)
	}
}

func NewMux(opts query.ParseOptions, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	outputBufPool := &sync.Pool{}
	outputBufPool.New = func() any {
		return &bytes.Buffer{}
	}

	mux.HandleFunc("/", info)
	mux.HandleFunc("POST /simplify", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Error processing request"))
			logger.Error("Error reading request body", slog.String("err", err.Error()))
			return
		}

		root, err := decodeBody(r.Header.Get("Content-Type"), body, opts)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			logger.Info("Rejected query", slog.String("err", err.Error()))
			return
		}

		simplified, err := query.NewSimplifier(root, query.WithLogger(logger)).Simplify()
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(err.Error()))
			logger.Info("Error simplifying query", slog.String("err", err.Error()))
			return
		}

		buf, ok := outputBufPool.Get().(*bytes.Buffer)
		if !ok {
			panic("Expected *bytes.Buffer in pool")
		}
		buf.Reset()
		defer outputBufPool.Put(buf)

		if _, err = (query.JsonOutput{}).OutputTo(buf, simplified); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Error while writing output"))
			logger.Error("Error writing json output", slog.String("err", err.Error()))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(buf.Bytes())
	})

	return mux
}
