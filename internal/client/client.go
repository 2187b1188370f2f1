// Package client implements the EasyDB database handle. A handle is
// created from an ordered list of table definitions; the definitions are
// validated and assembled into an immutable schema before any other
// operation is possible. The data-operation surface beyond Insert is not
// implemented in this version and returns ErrKindUnsupported.
package client

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/easydb-io/easydb-go/internal/errs"
	"github.com/easydb-io/easydb-go/internal/logger"
	"github.com/easydb-io/easydb-go/internal/schema"
)

// Op selects the comparison a Scan applies to a column. The codes are the
// EasyDB wire values.
type Op int32

const (
	OpAll          Op = iota + 1 // match every row
	OpEqual                      // ==
	OpNotEqual                   // !=
	OpLess                       // <
	OpGreater                    // >
	OpLessEqual                  // <=
	OpGreaterEqual               // >=
)

// Database is a handle on one EasyDB schema instance. The schema is built
// once in New and never mutated; the row-identifier counter is the only
// state that changes over the handle's lifetime.
type Database struct {
	schema *schema.Schema
	cfg    *Config
	log    *logger.Logger
	check  RowChecker

	conn net.Conn
	pk   *sequence

	// version is what Insert reports for new rows. Version bumping on
	// update is not implemented, so it stays 0.
	version int64
}

// Option customises a Database handle.
type Option func(*Database)

// WithConfig supplies connection settings. Without it DefaultConfig is used.
func WithConfig(cfg *Config) Option {
	return func(d *Database) { d.cfg = cfg }
}

// WithLogger supplies the structured logger the handle logs through.
func WithLogger(log *logger.Logger) Option {
	return func(d *Database) { d.log = log }
}

// WithRowChecker replaces the default row-value checker used by Insert.
func WithRowChecker(check RowChecker) Option {
	return func(d *Database) { d.check = check }
}

// New validates defs and returns a handle holding the built schema.
// Construction is atomic: any invalid definition fails the whole call and
// no handle is returned. The error carries the violated rule and the
// offending name; it satisfies the schema package's Is* predicates.
func New(defs []schema.TableDef, opts ...Option) (*Database, error) {
	d := &Database{
		check: CheckRowValues,
		pk:    newSequence(1),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.cfg == nil {
		d.cfg = DefaultConfig()
	}
	if d.log == nil {
		d.log = logger.New(d.cfg.Log)
	}

	s, err := schema.Build(defs)
	if err != nil {
		d.log.With().Err(err).Logger().Error("schema construction failed")
		return nil, err
	}
	d.schema = s

	d.log.With().
		Int("tables", s.TableCount()).
		Logger().
		Debug("schema built")
	return d, nil
}

// Schema returns the validated schema the handle was built with.
func (d *Database) Schema() *schema.Schema { return d.schema }

// Connect dials the EasyDB server at host:port over TCP. Protocol framing
// happens above this layer; Connect only establishes the transport.
func (d *Database) Connect(ctx context.Context, host string, port int) error {
	if d.conn != nil {
		return errs.New(errs.ErrKindInvalidInput, "already connected")
	}

	dialer := net.Dialer{Timeout: time.Duration(d.cfg.ConnectTimeout)}
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if ctx.Err() != nil {
			return errs.Wrap(errs.ErrKindTimeout, "dial "+addr, err)
		}
		return errs.Wrap(errs.ErrKindConnectionFailed, "dial "+addr, err)
	}
	d.conn = conn

	d.log.With().Str("addr", addr).Logger().Info("connected")
	return nil
}

// Close releases the connection if one is open. Safe to call on a handle
// that never connected.
func (d *Database) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Insert validates values against the named table and assigns the row its
// identifier. It returns the pre-incremented row id and the row version,
// which is always 0 at this layer.
func (d *Database) Insert(table string, values []any) (pk int64, version int64, err error) {
	t, ok := d.schema.Table(table)
	if !ok {
		return 0, 0, errs.Newf(errs.ErrKindNotFound, "unknown table %q", table)
	}
	if err := d.check(t, values); err != nil {
		return 0, 0, err
	}

	pk = d.pk.next()
	d.log.With().
		Str("table", table).
		Int64("pk", pk).
		Logger().
		Debug("row inserted")
	return pk, d.version, nil
}

// Update replaces a row's values if version matches.
func (d *Database) Update(table string, pk int64, values []any, version int64) error {
	return errs.New(errs.ErrKindUnsupported, "update is not implemented")
}

// Drop deletes a row.
func (d *Database) Drop(table string, pk int64) error {
	return errs.New(errs.ErrKindUnsupported, "drop is not implemented")
}

// Get fetches a row's values and version.
func (d *Database) Get(table string, pk int64) ([]any, int64, error) {
	return nil, 0, errs.New(errs.ErrKindUnsupported, "get is not implemented")
}

// Scan returns the ids of rows whose column matches value under op.
func (d *Database) Scan(table string, op Op, column string, value any) ([]int64, error) {
	return nil, errs.New(errs.ErrKindUnsupported, "scan is not implemented")
}
