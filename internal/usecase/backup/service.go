package backup

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	_ "github.com/lib/pq"           // postgres driver for the backup tool
	_ "github.com/mattn/go-sqlite3" // sqlite driver for the backup tool

	"github.com/eslsoft/lingolive/internal/infrastructure/database"
)

const (
	defaultBatchSize = 500
	formatVersion    = 1
	metaType         = "meta"
)

var errNoTablesSelected = errors.New("backup: no tables selected")

// ProgressReporter receives per-table progress during an export.
type ProgressReporter interface {
	StartTable(table string, total int)
	Increment(table string, delta int)
	FinishTable(table string)
}

type noopProgress struct{}

func (noopProgress) StartTable(string, int) {}
func (noopProgress) Increment(string, int)  {}
func (noopProgress) FinishTable(string)     {}

// Service streams every application table to and from NDJSON: one meta
// record followed by one record per row.
type Service struct {
	driver     string
	dialect    string
	dsn        string
	batchSize  int
	tables     []*schema.Table
	schemaHash string
}

type Option func(*Service)

func WithBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.batchSize = size
		}
	}
}

// NewService binds a backup service to a database. driver is "postgres" or
// "sqlite3".
func NewService(driver, dsn string, opts ...Option) (*Service, error) {
	driver = strings.TrimSpace(strings.ToLower(driver))
	var dialectName string
	switch driver {
	case "postgres", "postgresql":
		driver, dialectName = "postgres", dialect.Postgres
	case "sqlite3", "sqlite":
		driver, dialectName = "sqlite3", dialect.SQLite
	case "":
		return nil, errors.New("backup: driver is required")
	default:
		return nil, fmt.Errorf("backup: unsupported driver %q", driver)
	}
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("backup: DSN is required")
	}

	svc := &Service{
		driver:     driver,
		dialect:    dialectName,
		dsn:        dsn,
		batchSize:  defaultBatchSize,
		tables:     database.Tables,
		schemaHash: schemaFingerprint(database.Tables),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

type ExportOption func(*exportConfig)

type exportConfig struct {
	tables   []string
	reporter ProgressReporter
}

// WithTables restricts the export to the named tables.
func WithTables(tables []string) ExportOption {
	return func(cfg *exportConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

func WithProgressReporter(reporter ProgressReporter) ExportOption {
	return func(cfg *exportConfig) {
		cfg.reporter = reporter
	}
}

type ImportOption func(*importConfig)

type importConfig struct {
	tables []string
}

// WithImportTables restricts the import to the named tables; records for
// other tables are skipped.
func WithImportTables(tables []string) ImportOption {
	return func(cfg *importConfig) {
		cfg.tables = append(cfg.tables, tables...)
	}
}

type meta struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exported_at"`
	SchemaHash string         `json:"schema_hash"`
	Tables     []string       `json:"tables"`
	RowCounts  map[string]int `json:"row_counts"`
}

type record struct {
	Type    string          `json:"type"`
	Meta    *meta           `json:"meta,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func (s *Service) Export(ctx context.Context, w io.Writer, opts ...ExportOption) error {
	cfg := exportConfig{reporter: noopProgress{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.reporter == nil {
		cfg.reporter = noopProgress{}
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}

	drv, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer drv.Close()
	b := entsql.Dialect(s.dialect)

	counts := make(map[string]int, len(tables))
	names := make([]string, len(tables))
	for i, tbl := range tables {
		query, args := b.Select().Count("*").From(b.Table(tbl.Name)).Query()
		var n int
		if err := drv.DB().QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return fmt.Errorf("count %s: %w", tbl.Name, err)
		}
		counts[tbl.Name] = n
		names[i] = tbl.Name
	}

	bw := bufio.NewWriter(w)
	head := &meta{
		Version:    formatVersion,
		ExportedAt: time.Now().UTC(),
		SchemaHash: s.schemaHash,
		Tables:     names,
		RowCounts:  counts,
	}
	if err := writeLine(bw, record{Type: metaType, Meta: head}); err != nil {
		return err
	}
	for _, tbl := range tables {
		cfg.reporter.StartTable(tbl.Name, counts[tbl.Name])
		if err := s.exportTable(ctx, drv.DB(), b, tbl, cfg.reporter, bw); err != nil {
			return err
		}
		cfg.reporter.FinishTable(tbl.Name)
	}
	return bw.Flush()
}

func (s *Service) exportTable(ctx context.Context, db *sql.DB, b *entsql.DialectBuilder, tbl *schema.Table, reporter ProgressReporter, w io.Writer) error {
	columns := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		columns[i] = col.Name
	}
	order := make([]string, len(tbl.PrimaryKey))
	for i, col := range tbl.PrimaryKey {
		order[i] = col.Name
	}

	for offset := 0; ; offset += s.batchSize {
		query, args := b.Select(columns...).
			From(b.Table(tbl.Name)).
			OrderBy(order...).
			Limit(s.batchSize).
			Offset(offset).
			Query()
		rows, err := db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query %s: %w", tbl.Name, err)
		}
		n, err := s.writeRows(rows, tbl, reporter, w)
		rows.Close()
		if err != nil {
			return err
		}
		if n < s.batchSize {
			return nil
		}
	}
}

func (s *Service) writeRows(rows *sql.Rows, tbl *schema.Table, reporter ProgressReporter, w io.Writer) (int, error) {
	n := 0
	for rows.Next() {
		values := make([]any, len(tbl.Columns))
		dest := make([]any, len(values))
		for i := range dest {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return n, fmt.Errorf("scan %s: %w", tbl.Name, err)
		}
		row := make(map[string]any, len(values))
		for i, col := range tbl.Columns {
			v, err := fromDB(col, values[i])
			if err != nil {
				return n, fmt.Errorf("convert %s.%s: %w", tbl.Name, col.Name, err)
			}
			row[col.Name] = v
		}
		payload, err := json.Marshal(row)
		if err != nil {
			return n, err
		}
		if err := writeLine(w, record{Type: tbl.Name, Payload: payload}); err != nil {
			return n, err
		}
		reporter.Increment(tbl.Name, 1)
		n++
	}
	if err := rows.Err(); err != nil {
		return n, fmt.Errorf("iterate %s: %w", tbl.Name, err)
	}
	return n, nil
}

// Import replays a backup inside one transaction. Existing rows with the
// same primary key are overwritten.
func (s *Service) Import(ctx context.Context, r io.Reader, opts ...ImportOption) error {
	cfg := importConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	tables, err := s.selectTables(cfg.tables)
	if err != nil {
		return err
	}
	wanted := make(map[string]*schema.Table, len(tables))
	for _, tbl := range tables {
		wanted[tbl.Name] = tbl
	}

	drv, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer drv.Close()
	b := entsql.Dialect(s.dialect)

	tx, err := drv.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	br := bufio.NewReader(r)
	var head *meta
	for {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("read backup: %w", readErr)
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var rec record
			if err := json.Unmarshal(line, &rec); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			switch {
			case rec.Type == metaType:
				if rec.Meta == nil || rec.Meta.Version != formatVersion {
					return errors.New("backup: unsupported format version")
				}
				head = rec.Meta
			case head == nil:
				return errors.New("backup: missing meta record")
			default:
				if tbl, ok := wanted[rec.Type]; ok {
					if err := importRow(ctx, tx, b, tbl, rec.Payload); err != nil {
						return err
					}
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}
	if head == nil {
		return errors.New("backup: missing meta record")
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

func importRow(ctx context.Context, tx *sql.Tx, b *entsql.DialectBuilder, tbl *schema.Table, payload json.RawMessage) error {
	if len(payload) == 0 {
		return fmt.Errorf("backup: missing payload for table %s", tbl.Name)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode %s payload: %w", tbl.Name, err)
	}
	for key := range raw {
		if _, ok := tbl.Column(key); !ok {
			return fmt.Errorf("backup: unknown column %s.%s", tbl.Name, key)
		}
	}

	var (
		columns []string
		values  []any
	)
	for _, col := range tbl.Columns {
		v, ok := raw[col.Name]
		if !ok {
			continue
		}
		converted, err := fromJSON(col, v)
		if err != nil {
			return fmt.Errorf("convert %s.%s: %w", tbl.Name, col.Name, err)
		}
		if converted == nil && !col.Nullable {
			if col.Default == nil {
				return fmt.Errorf("backup: missing required value for %s.%s", tbl.Name, col.Name)
			}
			converted = col.Default
		}
		columns = append(columns, col.Name)
		values = append(values, converted)
	}
	if len(columns) == 0 {
		return nil
	}

	keys := make([]string, len(tbl.PrimaryKey))
	for i, col := range tbl.PrimaryKey {
		keys[i] = col.Name
	}
	query, args := b.Insert(tbl.Name).
		Columns(columns...).
		Values(values...).
		OnConflict(entsql.ConflictColumns(keys...), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", tbl.Name, err)
	}
	return nil
}

// selectTables keeps the schema's parent-before-child order so that foreign
// keys hold while importing.
func (s *Service) selectTables(requested []string) ([]*schema.Table, error) {
	if len(requested) == 0 {
		return s.tables, nil
	}
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		if n := strings.TrimSpace(strings.ToLower(name)); n != "" {
			set[n] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, errNoTablesSelected
	}
	var out []*schema.Table
	for _, tbl := range s.tables {
		if _, ok := set[tbl.Name]; ok {
			out = append(out, tbl)
			delete(set, tbl.Name)
		}
	}
	for name := range set {
		return nil, fmt.Errorf("backup: unsupported table %q", name)
	}
	return out, nil
}

func (s *Service) open(ctx context.Context) (*entsql.Driver, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if s.dialect == dialect.SQLite {
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return entsql.OpenDB(s.dialect, db), nil
}

// schemaFingerprint hashes table and column definitions so that a backup
// records which schema produced it.
func schemaFingerprint(tables []*schema.Table) string {
	h := sha256.New()
	for _, tbl := range tables {
		fmt.Fprintf(h, "%s(", tbl.Name)
		for _, col := range tbl.Columns {
			fmt.Fprintf(h, "%s:%s:%t,", col.Name, col.Type, col.Nullable)
		}
		fmt.Fprint(h, ")\n")
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func writeLine(w io.Writer, rec record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
