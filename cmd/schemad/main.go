// Command schemad loads a YAML schema definition, validates it, and serves
// the built schema over HTTP for inspection.
//
// Usage:
//
//	schemad -schema schema.yaml -addr :8089
package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/easydb-io/easydb-go/internal/httpapi"
	"github.com/easydb-io/easydb-go/internal/logger"
	"github.com/easydb-io/easydb-go/internal/schema"
)

func main() {
	var (
		schemaPath = flag.String("schema", "schema.yaml", "path to the YAML schema definition")
		addr       = flag.String("addr", ":8089", "listen address")
		logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		logFormat  = flag.String("log-format", "console", "log format (json, console)")
	)
	flag.Parse()

	log := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: *logFormat,
		Output: os.Stderr,
	})

	s, err := schema.Load(*schemaPath)
	if err != nil {
		log.With().Err(err).Str("path", *schemaPath).Logger().
			Fatal("schema definition rejected")
	}

	log.With().
		Str("path", *schemaPath).
		Int("tables", s.TableCount()).
		Str("addr", *addr).
		Logger().
		Info("serving schema")

	srv := httpapi.New(s, log)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.With().Err(err).Logger().Fatal("server stopped")
	}
}
