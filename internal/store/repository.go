package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"medicquiz/internal/quiz"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Document names, one per persisted concern.
const (
	QuestionsDocument       = "questions"
	TestsDocument           = "tests"
	SolutionsDocument       = "solutions"
	ImageMappingsDocument   = "image-mappings"
	SubjectMappingsDocument = "subject-mappings"
)

// Repository encodes the quiz stores as YAML documents on a Backend.
// Loads never fail: a missing or unreadable document yields an empty
// value and a logged warning.
type Repository struct {
	backend Backend
	log     *zap.Logger
}

func NewRepository(backend Backend, log *zap.Logger) *Repository {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository{backend: backend, log: log}
}

func (r *Repository) LoadQuestions(ctx context.Context) []quiz.Question {
	out := load[[]quiz.Question](ctx, r, QuestionsDocument)
	for i := range out {
		quiz.SortAnswers(out[i].Answers)
	}
	sortByKey(out)
	return out
}

func (r *Repository) SaveQuestions(ctx context.Context, questions []quiz.Question) error {
	sorted := append([]quiz.Question(nil), questions...)
	sortByKey(sorted)
	return r.save(ctx, QuestionsDocument, sorted)
}

func (r *Repository) LoadTests(ctx context.Context) []quiz.Test {
	out := load[[]quiz.Test](ctx, r, TestsDocument)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (r *Repository) SaveTests(ctx context.Context, tests []quiz.Test) error {
	sorted := append([]quiz.Test(nil), tests...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })
	return r.save(ctx, TestsDocument, sorted)
}

func (r *Repository) LoadSolutions(ctx context.Context) []quiz.Solution {
	out := load[[]quiz.Solution](ctx, r, SolutionsDocument)
	sortByKey(out)
	return out
}

func (r *Repository) SaveSolutions(ctx context.Context, solutions []quiz.Solution) error {
	sorted := append([]quiz.Solution(nil), solutions...)
	sortByKey(sorted)
	return r.save(ctx, SolutionsDocument, sorted)
}

// LoadImageMappings returns question number -> image fingerprints.
func (r *Repository) LoadImageMappings(ctx context.Context) map[int][]string {
	out := load[map[int][]string](ctx, r, ImageMappingsDocument)
	if out == nil {
		out = map[int][]string{}
	}
	return out
}

// SaveImageMappings writes the mapping. yaml.v3 emits map keys sorted.
func (r *Repository) SaveImageMappings(ctx context.Context, mappings map[int][]string) error {
	return r.save(ctx, ImageMappingsDocument, mappings)
}

// LoadSubjectMappings returns test number -> switch-at question number.
func (r *Repository) LoadSubjectMappings(ctx context.Context) map[int]int {
	out := load[map[int]int](ctx, r, SubjectMappingsDocument)
	if out == nil {
		out = map[int]int{}
	}
	return out
}

func (r *Repository) SaveSubjectMappings(ctx context.Context, mappings map[int]int) error {
	return r.save(ctx, SubjectMappingsDocument, mappings)
}

func load[T any](ctx context.Context, r *Repository, name string) T {
	var out T
	data, err := r.backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.log.Warn("store document missing, starting empty", zap.String("document", name))
		} else {
			r.log.Warn("failed to read store document, starting empty", zap.String("document", name), zap.Error(err))
		}
		return out
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		r.log.Warn("failed to decode store document, starting empty", zap.String("document", name), zap.Error(err))
		var empty T
		return empty
	}
	return out
}

func sortByKey[T quiz.Keyed](items []T) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Key().Less(items[j].Key()) })
}

func (r *Repository) save(ctx context.Context, name string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := r.backend.Write(ctx, name, data); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
