package cmd

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pable/go-tactics/internal/document"
	"github.com/pable/go-tactics/internal/extract"
	"github.com/pable/go-tactics/internal/model"
	"github.com/pable/go-tactics/internal/parser"
	"github.com/pable/go-tactics/internal/storage"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file-or-dir>...",
	Short: "Parse match files and store their documents",
	Long: `Read .json, .jsonl and .ndjson match files (optionally .gz, .bz2 or .zst
compressed) and store every match document they hold. Directories are walked
recursively. Documents already stored are left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stdout, "No match files found.")
		return nil
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	var (
		batch    []storage.StoredDocument
		warnings []string
		skipped  int
	)
	bar := newBar(len(files), "ingesting")
	for _, path := range files {
		f, err := parser.ParseFile(path)
		bar.Add(1)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		skipped += f.Skipped
		for _, doc := range f.Documents {
			meta, err := describe(doc, path)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s: document %s: %v", filepath.Base(path), doc.Hash()[:12], err))
				skipped++
				continue
			}
			batch = append(batch, storage.StoredDocument{Meta: meta, Doc: doc})
		}
	}
	bar.Finish()

	for _, w := range warnings {
		cWarn.Fprintf(os.Stderr, "  [skip] %s\n", w)
	}

	added, err := db.InsertDocuments(batch)
	if err != nil {
		return fmt.Errorf("store documents: %w", err)
	}
	log.Debug().Int("files", len(files)).Int("documents", len(batch)).Int("added", added).Msg("ingest finished")
	fmt.Fprintf(os.Stdout, "\nDone: %d new, %d already stored, %d skipped\n", added, len(batch)-added, skipped)
	return nil
}

// collectFiles expands directories into the match files below them. Plain
// file arguments are kept as given.
func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && parser.Supported(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return files, nil
}

// describe builds the stored header of doc.
func describe(doc document.Document, source string) (model.DocumentMeta, error) {
	s, err := extract.Describe(doc)
	if err != nil {
		return model.DocumentMeta{}, err
	}
	return model.DocumentMeta{
		Hash:      doc.Hash(),
		Layout:    s.Layout.String(),
		MatchID:   s.MatchID,
		MatchDate: s.Date,
		League:    s.League,
		HomeTeam:  s.HomeTeam,
		AwayTeam:  s.AwayTeam,
		Score:     s.ScoreLine(),
		Source:    source,
	}, nil
}

// newBar returns a progress bar on stderr, hidden when stderr is not a terminal.
func newBar(n int, desc string) *progressbar.ProgressBar {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return progressbar.NewOptions64(int64(n), progressbar.OptionSetVisibility(false))
	}
	return progressbar.Default(int64(n), desc)
}
