package question

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"medicquiz/internal/quiz"
	"medicquiz/internal/report"

	"go.uber.org/zap"
)

var testFilePattern = regexp.MustCompile(`^TC(\d+)\.docx$`)

// Repository is the persistence the import run reads from and writes to.
type Repository interface {
	LoadSubjectMappings(ctx context.Context) map[int]int
	SaveQuestions(ctx context.Context, questions []quiz.Question) error
	SaveTests(ctx context.Context, tests []quiz.Test) error
}

type Importer struct {
	converter  Converter
	parser     *Parser
	repo       Repository
	examLength int
	log        *zap.Logger
}

func NewImporter(converter Converter, parser *Parser, repo Repository, examLength int, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	if examLength <= 0 {
		examLength = report.DefaultExamLength
	}
	return &Importer{converter: converter, parser: parser, repo: repo, examLength: examLength, log: log}
}

type ImportResult struct {
	Parsed    []int
	Failed    map[int]error
	Questions int
	Tests     int
	Report    report.Report
}

type testFile struct {
	number int
	path   string
}

// listTestFiles lists the documents of dir named TC<number>.docx, ordered by
// test number. Legacy .doc files are skipped; the converter reads docx only.
func listTestFiles(dir string) ([]testFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list tests dir: %w", err)
	}
	var out []testFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := testFilePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, testFile{number: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].number < out[j].number })
	return out, nil
}

// ImportDirectory parses every test document of dir into a fresh bank,
// validates it and replaces the persisted questions and tests. A document
// that fails is reported and skipped.
func (im *Importer) ImportDirectory(ctx context.Context, dir string) (ImportResult, error) {
	files, err := listTestFiles(dir)
	if err != nil {
		return ImportResult{}, err
	}
	switches := im.repo.LoadSubjectMappings(ctx)
	acc := NewAccumulator()
	result := ImportResult{Failed: map[int]error{}}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		log := im.log.With(zap.Int("test", f.number), zap.String("file", f.path))
		log.Info("parsing test")

		switchAt, ok := switches[f.number]
		if !ok {
			switchAt = NeverSwitch
		}
		if err := im.importFile(ctx, f, switchAt, acc, log); err != nil {
			log.Error("test document skipped", zap.Error(err))
			result.Failed[f.number] = err
			continue
		}
		result.Parsed = append(result.Parsed, f.number)
	}

	questions := acc.Questions()
	tests := acc.Tests()
	result.Questions = len(questions)
	result.Tests = len(tests)

	result.Report = CheckAll(questions, tests, im.examLength)
	result.Report.Log(im.log)

	if err := im.repo.SaveQuestions(ctx, questions); err != nil {
		return result, err
	}
	if err := im.repo.SaveTests(ctx, tests); err != nil {
		return result, err
	}
	return result, nil
}

func (im *Importer) importFile(ctx context.Context, f testFile, switchAt int, acc *Accumulator, log *zap.Logger) error {
	conv, err := im.converter.Convert(ctx, f.path)
	if err != nil {
		return err
	}
	for _, w := range conv.Warnings {
		log.Warn("converter warning", zap.String("warning", w))
	}
	test, err := im.parser.ParseDocument(ctx, Document{
		Name:       filepath.Base(f.path),
		TestNumber: f.number,
		HTML:       conv.HTML,
		SwitchAt:   switchAt,
	}, acc)
	if err != nil {
		var se *StructureError
		if errors.As(err, &se) {
			log.Error("unknown document structure", zap.Int("question", se.Question), zap.String("detail", se.Detail))
		}
		return err
	}
	for _, subject := range quiz.Subjects() {
		log.Info("test parsed", zap.String("subject", subject.String()), zap.Int("questions", len(test.Questions[subject])))
	}
	return nil
}

// CheckAll runs the question and test checks of a parse pass.
func CheckAll(questions []quiz.Question, tests []quiz.Test, examLength int) report.Report {
	out := report.CheckQuestions(questions)
	out.Merge(report.CheckTests(tests, examLength))
	return out
}
