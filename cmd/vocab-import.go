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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingolive/internal/adapter/repository"
	"github.com/eslsoft/lingolive/internal/adapter/spreadsheet"
	"github.com/eslsoft/lingolive/internal/infrastructure/config"
	"github.com/eslsoft/lingolive/internal/infrastructure/database"
	"github.com/eslsoft/lingolive/internal/infrastructure/server"
	"github.com/eslsoft/lingolive/internal/usecase"
)

const (
	vocabFileKey     = "vocab_import.file"
	vocabUserKey     = "vocab_import.user"
	vocabLanguageKey = "vocab_import.language"
	vocabSheetKey    = "vocab_import.sheet"
)

var vocabImportCmd = &cobra.Command{
	Use:   "vocab-import",
	Short: "Import a learner's vocabulary from an xlsx or csv sheet",
	Long: `Reads a spreadsheet with a header row naming word, translation,
pronunciation, partOfSpeech, example, mastery and language columns, or the
first six columns in that order, and upserts every row into the user's
vocabulary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path := viper.GetString(vocabFileKey)
		userID := viper.GetString(vocabUserKey)
		if path == "" || userID == "" {
			return errors.New("--file and --user are required")
		}

		sheet, err := spreadsheet.ReadFile(path, spreadsheet.Options{
			Sheet:    viper.GetString(vocabSheetKey),
			Language: viper.GetString(vocabLanguageKey),
		})
		if err != nil {
			return fmt.Errorf("read sheet: %w", err)
		}
		for _, skipped := range sheet.Skipped {
			cmd.PrintErrf("skipped %s\n", skipped)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := server.NewLogger(cfg)
		if err != nil {
			return err
		}
		drv, cleanup, err := database.NewDriver(cfg, logger)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer cleanup()

		vocab := usecase.NewVocabularyUsecase(repository.NewVocabularyRepository(drv))
		result, err := vocab.Import(ctx, userID, sheet.Entries)
		if err != nil {
			return fmt.Errorf("import vocabulary: %w", err)
		}
		for _, rowErr := range result.Errors {
			cmd.PrintErrf("rejected %s\n", rowErr)
		}
		cmd.Printf("imported %d rows for %s: %d created, %d updated\n",
			result.Processed, userID, result.Created, result.Updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabImportCmd)

	vocabImportCmd.Flags().StringP("file", "f", "", "xlsx or csv file to read")
	vocabImportCmd.Flags().StringP("user", "u", "", "user id that owns the vocabulary")
	vocabImportCmd.Flags().String("language", "", "language code for rows without one")
	vocabImportCmd.Flags().String("sheet", "", "worksheet name (default first sheet)")

	bindFlagToViper(vocabFileKey, vocabImportCmd.Flags().Lookup("file"))
	bindFlagToViper(vocabUserKey, vocabImportCmd.Flags().Lookup("user"))
	bindFlagToViper(vocabLanguageKey, vocabImportCmd.Flags().Lookup("language"))
	bindFlagToViper(vocabSheetKey, vocabImportCmd.Flags().Lookup("sheet"))
}
