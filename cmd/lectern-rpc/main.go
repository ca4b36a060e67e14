// Lectern: A library and CLI for extracting novel catalogs and chapter indexes.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/rpc/jsonrpc"
	"os"
	"os/signal"
	"syscall"

	"Lectern/internal/config"
	"Lectern/internal/rpc"
	_ "Lectern/internal/sources" // registers every site adapter
	"Lectern/pkg/engine"
	"Lectern/pkg/errors"
	"Lectern/pkg/source/registry"
)

var (
	Version = "dev"
)

// stdio joins stdin and stdout into the connection JSON-RPC expects
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, errors.FormatCLI(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Track(err).AsConfiguration().Error()
	}

	appEngine, err := engine.New(cfg.EngineOptions())
	if err != nil {
		return err
	}
	defer func() { _ = appEngine.Shutdown() }()

	if err := registry.LoadAll(appEngine); err != nil {
		appEngine.Logger.Warn("Some sources failed to load: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := rpc.NewServer(ctx, appEngine, Version, rpc.WithConcurrency(cfg.Concurrency))
	if err != nil {
		return err
	}

	appEngine.Logger.Info("Lectern RPC server v%s started with %d sources", Version, appEngine.SourceCount())
	// stdout belongs to the protocol
	fmt.Fprintf(os.Stderr, "Lectern RPC v%s ready with %d sources\n", Version, appEngine.SourceCount())

	done := make(chan struct{})
	go func() {
		server.ServeCodec(jsonrpc.NewServerCodec(stdio{Reader: bufio.NewReader(os.Stdin), Writer: os.Stdout}))
		close(done)
	}()

	select {
	case <-done:
		appEngine.Logger.Info("RPC connection closed")
	case <-ctx.Done():
		appEngine.Logger.Info("RPC server shutting down...")
	}
	return nil
}
