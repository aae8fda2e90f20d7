package cmd

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jpappel/qsimp/pkg/server"
)

type ServerFlags struct {
	Address string
	Port    int
}

func SetupServerFlags(args []string, fs *flag.FlagSet, flags *ServerFlags) {
	fs.StringVar(&flags.Address, "address", "", "the address to listen on, prefix with 'unix:' to create a unixsocket")
	fs.IntVar(&flags.Port, "port", 8080, "the port to bind to")

	fs.Parse(args)
}

func RunServer(gFlags GlobalFlags, sFlags ServerFlags) byte {
	opts, err := gFlags.ParseOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := slog.Default()

	var addr string
	var s server.Server
	if after, ok := strings.CutPrefix(sFlags.Address, "unix:"); ok {
		logger.Debug("Preparing unix domain socket")
		addr = after
		s = &server.UnixServer{Addr: addr, Options: opts, Logger: logger}
	} else {
		logger.Debug("Preparing http server")
		addr = fmt.Sprintf("%s:%d", sFlags.Address, sFlags.Port)
		s = &http.Server{Addr: addr, Handler: server.NewMux(opts, logger)}
	}

	serverErrors := make(chan error, 1)
	exit := make(chan os.Signal, 1)

	signal.Notify(exit, syscall.SIGTERM, os.Interrupt)

	logger.Info("Starting server on", slog.String("addr", addr))
	go func(serverErrors chan<- error) {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
		close(serverErrors)
	}(serverErrors)

	select {
	case <-exit:
		logger.Info("Received signal to shutdown")
	case err := <-serverErrors:
		if err != nil {
			logger.Error("Server error", slog.String("err", err.Error()))
			return 1
		}
	}

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Error("Error shutting down server",
			slog.String("err", err.Error()))
		return 1
	}

	return 0
}
