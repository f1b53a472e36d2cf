package answerkey

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"medicquiz/internal/quiz"
	"medicquiz/internal/report"

	"go.uber.org/zap"
)

type Repository interface {
	SaveSolutions(ctx context.Context, solutions []quiz.Solution) error
}

type Importer struct {
	repo Repository
	log  *zap.Logger
}

func NewImporter(repo Repository, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{repo: repo, log: log}
}

type ImportResult struct {
	Sheets    []string
	Failed    map[string]error
	Solutions int
	Report    report.Report
}

// ImportDirectory parses every .xlsx sheet of dir into one answer key,
// checks it and replaces the persisted key.
func (im *Importer) ImportDirectory(ctx context.Context, dir string) (ImportResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ImportResult{}, fmt.Errorf("list solutions dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".xlsx") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	result := ImportResult{Failed: map[string]error{}}
	key := quiz.NewSet[quiz.Solution]()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		subject := SubjectForFile(name)
		im.log.Info("parsing solution sheet", zap.String("file", name), zap.String("subject", subject.String()))

		solutions, err := parseFile(filepath.Join(dir, name), subject)
		if err != nil {
			im.log.Error("solution sheet skipped", zap.String("file", name), zap.Error(err))
			result.Failed[name] = err
			continue
		}
		im.merge(key, solutions, name)
		result.Sheets = append(result.Sheets, name)
	}

	sorted := key.Sorted()
	result.Solutions = len(sorted)
	result.Report = report.CheckSolutions(sorted)
	result.Report.Log(im.log)

	if err := im.repo.SaveSolutions(ctx, sorted); err != nil {
		return result, err
	}
	return result, nil
}

func (im *Importer) merge(key *quiz.Set[quiz.Solution], solutions []quiz.Solution, file string) {
	for _, s := range solutions {
		if key.Add(s) {
			continue
		}
		existing, _ := key.Get(s.Key())
		if existing.CorrectAnswers.String() != s.CorrectAnswers.String() {
			im.log.Debug("conflicting answer key ignored",
				zap.String("file", file),
				zap.String("question", s.Key().String()),
				zap.String("kept", existing.CorrectAnswers.String()),
				zap.String("ignored", s.CorrectAnswers.String()),
			)
		}
	}
}

func parseFile(path string, subject quiz.Subject) ([]quiz.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSheet(f, subject)
}
