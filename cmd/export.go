/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/lingolive/internal/usecase/backup"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export database content as an NDJSON backup",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		args := readBackupArgs("export")
		if args.Path == "" {
			args.Path = backupFilename(time.Now(), args.Gzip)
		}

		svc, err := newBackupService(args)
		if err != nil {
			return err
		}

		w, closers, err := createSink(cmd.OutOrStdout(), args)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closers.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		opts := []backup.ExportOption{backup.WithProgressReporter(newProgressPrinter(cmd.ErrOrStderr()))}
		if len(args.Tables) > 0 {
			opts = append(opts, backup.WithTables(args.Tables))
		}
		if err := svc.Export(cmd.Context(), w, opts...); err != nil {
			return fmt.Errorf("export backup: %w", err)
		}

		if args.Path == stdStream {
			cmd.PrintErrln("export complete: written to stdout")
			return nil
		}
		cmd.Printf("export complete: %s\n", args.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	registerBackupFlags(exportCmd, "export", "output", "o", "backup output path, - for stdout")
}

// backupFilename is lingolive-backup-<utc timestamp>.jsonl[.gz].
func backupFilename(now time.Time, gz bool) string {
	name := "lingolive-backup-" + now.UTC().Format("20060102-150405") + ".jsonl"
	if gz {
		name += ".gz"
	}
	return name
}
