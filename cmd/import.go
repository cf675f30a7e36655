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
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eslsoft/lingolive/internal/usecase/backup"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import database content from an NDJSON backup",
	RunE: func(cmd *cobra.Command, _ []string) (err error) {
		args := readBackupArgs("import")
		if args.Path == "" {
			return errors.New("set --input to a backup file, or - for stdin")
		}

		if err := runMigrations(cmd.Context(), 30*time.Second); err != nil {
			return err
		}
		svc, err := newBackupService(args)
		if err != nil {
			return err
		}

		r, closers, err := openSource(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closers.close(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		var opts []backup.ImportOption
		if len(args.Tables) > 0 {
			opts = append(opts, backup.WithImportTables(args.Tables))
		}
		if err := svc.Import(cmd.Context(), r, opts...); err != nil {
			return fmt.Errorf("import backup: %w", err)
		}

		cmd.Printf("import complete: %s\n", args.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	registerBackupFlags(importCmd, "import", "input", "i", "backup input path, - for stdin")
}
