package server

import (
	"context"
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/jpappel/qsimp/pkg/query"
)

const maxDatagram = 64 * 1024

// datagram based unix server, replies with the simplified query string
// followed by an EOT byte
type UnixServer struct {
	Addr    string
	Options query.ParseOptions
	Logger  *slog.Logger

	mu   sync.Mutex
	conn *net.UnixConn
}

func (s *UnixServer) ListenAndServe() error {
	serverAddr := s.Addr + "_server.sock"
	clientAddr := s.Addr + "_client.sock"

	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := net.ListenUnixgram(
		"unixgram",
		&net.UnixAddr{Name: serverAddr, Net: "unixgram"},
	)
	if err != nil {
		return err
	}
	defer os.Remove(serverAddr)
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	logger.Info("Listening on", slog.String("addr", serverAddr))

	remote, err := net.ResolveUnixAddr("unixgram", clientAddr)
	if err != nil {
		return err
	}

	buf := make([]byte, maxDatagram)
	for {
		n, _, err := conn.ReadFromUnix(buf)
		if err != nil {
			return err
		}
		queryTxt := string(buf[:n])
		logger.Debug("New message",
			slog.String("msg", queryTxt),
			slog.String("local", conn.LocalAddr().String()),
			slog.String("remote", remote.String()),
		)

		var reply string
		simplified, err := query.Compile(queryTxt, s.Options, query.WithLogger(logger))
		if err != nil {
			logger.Info("Failed to compile query", slog.String("err", err.Error()))
			reply = "error: " + err.Error()
		} else {
			reply = simplified.String()
		}

		if _, err := conn.WriteToUnix(append([]byte(reply), 4), remote); err != nil {
			logger.Error("Failed to reply", slog.String("err", err.Error()))
		}
	}
}

func (s *UnixServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
