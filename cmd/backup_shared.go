package cmd

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/usecase/backup"
)

const stdStream = "-"

// backupArgs are the resolved flags shared by export and import.
type backupArgs struct {
	Path      string
	Gzip      bool
	Tables    []string
	BatchSize int
}

// readBackupArgs reads backup.<direction>.{path,gzip,tables,batch_size}.
func readBackupArgs(direction string) backupArgs {
	key := func(name string) string { return "backup." + direction + "." + name }
	args := backupArgs{
		Path:      strings.TrimSpace(viper.GetString(key("path"))),
		Gzip:      viper.GetBool(key("gzip")),
		Tables:    normalizeTables(viper.GetStringSlice(key("tables"))),
		BatchSize: viper.GetInt(key("batch_size")),
	}
	if args.Path != stdStream && strings.HasSuffix(strings.ToLower(args.Path), ".gz") {
		args.Gzip = true
	}
	return args
}

func registerBackupFlags(cmd *cobra.Command, direction, pathFlag, pathShort, pathUsage string) {
	flags := cmd.Flags()
	flags.StringP(pathFlag, pathShort, "", pathUsage)
	flags.Bool("gzip", false, "gzip compressed stream")
	flags.StringSlice("tables", nil, "limit to these tables (comma separated or repeated)")
	flags.Int("batch-size", 0, "rows per batch (default 512)")

	prefix := "backup." + direction + "."
	bindFlagToViper(prefix+"path", flags.Lookup(pathFlag))
	bindFlagToViper(prefix+"gzip", flags.Lookup("gzip"))
	bindFlagToViper(prefix+"tables", flags.Lookup("tables"))
	bindFlagToViper(prefix+"batch_size", flags.Lookup("batch-size"))
}

func newBackupService(args backupArgs) (*backup.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, fmt.Errorf("resolve database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("resolve database dsn: %w", err)
	}
	svc, err := backup.NewService(driver, dsn, backup.WithBatchSize(args.BatchSize))
	if err != nil {
		return nil, fmt.Errorf("create backup service: %w", err)
	}
	return svc, nil
}

// stack closes its members in reverse order of push.
type stack []func() error

func (s *stack) push(fn func() error) { *s = append(*s, fn) }

func (s stack) close() error {
	var errs []error
	for i := len(s) - 1; i >= 0; i-- {
		errs = append(errs, s[i]())
	}
	return errors.Join(errs...)
}

func createSink(stdout io.Writer, args backupArgs) (io.Writer, stack, error) {
	var closers stack
	w := stdout
	if args.Path != stdStream {
		if err := os.MkdirAll(filepath.Dir(args.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create output directory: %w", err)
		}
		f, err := os.Create(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("create backup file: %w", err)
		}
		closers.push(f.Close)
		w = f
	}
	if args.Gzip {
		gz := gzip.NewWriter(w)
		closers.push(gz.Close)
		w = gz
	}
	return w, closers, nil
}

func openSource(stdin io.Reader, args backupArgs) (io.Reader, stack, error) {
	var closers stack
	r := stdin
	if args.Path != stdStream {
		f, err := os.Open(filepath.Clean(args.Path))
		if err != nil {
			return nil, nil, fmt.Errorf("open backup file: %w", err)
		}
		closers.push(f.Close)
		r = f
	}
	if args.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, errors.Join(fmt.Errorf("open gzip reader: %w", err), closers.close())
		}
		closers.push(gz.Close)
		r = gz
	}
	return r, closers, nil
}

func normalizeTables(values []string) []string {
	tables := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		name := strings.ToLower(strings.TrimSpace(v))
		return name, name != ""
	})
	if len(tables) == 0 {
		return nil
	}
	return tables
}

func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
