/*
Copyright 2026 The Quiver Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Command quiverql converts a structured query between its SQL, binary, and
// JSON-DSL forms, exercising all three query codecs end to end.
package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quiverdb/quiver/logging"
	"github.com/quiverdb/quiver/metrics"
	"github.com/quiverdb/quiver/query"
)

type options struct {
	From       string `long:"from" short:"f" description:"Input format: sql, json, or binary" value-name:"format" default:"sql"`
	To         string `long:"to" short:"t" description:"Output format: sql, json, or binary" value-name:"format" default:"json"`
	File       string `long:"file" description:"Read the query from this file instead of stdin" value-name:"path"`
	MetricsURL string `long:"metrics-addr" description:"Serve Prometheus metrics on this address (e.g. :9090) instead of exiting after one conversion" value-name:"addr"`
	Verbose    bool   `long:"verbose" short:"v" description:"Log at debug level"`
	Version    bool   `long:"version" description:"Show version and exit"`
}

const version = "0.1.0"

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options]"
	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}
	if opts.Version {
		fmt.Println(version)
		return
	}

	debugLevel := uint64(0)
	if opts.Verbose {
		debugLevel = 2
	}
	logger := logging.NewLogger(&logging.Config{Style: logging.StyleTerminal, Level: logging.LevelForDebugLevel(debugLevel)})
	logging.SetGlobal(logger)
	query.SetDefaultDebugLevel(debugLevel)
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		logger.Fatal("failed to register metrics", zap.Error(err))
	}
	if opts.MetricsURL != "" {
		startMetricsServer(logger, opts.MetricsURL, reg)
	}

	if err := run(opts, logger); err != nil {
		logger.Error("conversion failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if opts.MetricsURL != "" {
		// Keep serving /metrics after the conversion until the process is stopped.
		select {}
	}
}

func run(opts options, logger *zap.Logger) error {
	input, err := readInput(opts.File)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	q, err := decode(opts.From, input)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", opts.From, err)
	}
	logger.Debug("decoded query", zap.String("namespace", q.Namespace), zap.String("from", opts.From))

	output, err := encode(opts.To, q)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", opts.To, err)
	}

	_, err = os.Stdout.Write(output)
	return err
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func decode(format string, input []byte) (*query.Query, error) {
	switch format {
	case "sql":
		return query.Parse(string(input))
	case "json":
		return query.ParseJson(input)
	case "binary":
		raw, err := base64.StdEncoding.DecodeString(string(input))
		if err != nil {
			return nil, fmt.Errorf("decoding base64 binary input: %w", err)
		}
		return query.Deserialize(raw)
	default:
		return nil, fmt.Errorf("unknown format %q: must be sql, json, or binary", format)
	}
}

func encode(format string, q *query.Query) ([]byte, error) {
	switch format {
	case "sql":
		return []byte(q.Dump() + "\n"), nil
	case "json":
		data, err := q.ToDsl()
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "binary":
		raw := q.Serialize(0)
		return []byte(base64.StdEncoding.EncodeToString(raw) + "\n"), nil
	default:
		return nil, fmt.Errorf("unknown format %q: must be sql, json, or binary", format)
	}
}

func startMetricsServer(logger *zap.Logger, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
}
