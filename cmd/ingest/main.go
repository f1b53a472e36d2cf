package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"medicquiz/internal/answerkey"
	"medicquiz/internal/app"
	"medicquiz/internal/imagestore"
	"medicquiz/internal/question"
	"medicquiz/internal/store"

	"go.uber.org/zap"
)

const usage = `usage: ingest [flags] tests|solutions|all

Parses the exam documents and/or answer-key sheets and replaces the
persisted question bank, tests and answer key.

flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	testsDir := flag.String("tests", "", "directory with TC<n>.docx documents (default from TESTS_DIR)")
	solutionsDir := flag.String("solutions", "", "directory with .xlsx answer keys (default from SOLUTIONS_DIR)")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	mode := flag.Arg(0)
	if mode != "tests" && mode != "solutions" && mode != "all" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Printf("config error: %v", err)
		os.Exit(1)
	}
	if *testsDir != "" {
		cfg.TestsDir = *testsDir
	}
	if *solutionsDir != "" {
		cfg.SolutionsDir = *solutionsDir
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Printf("logger error: %v", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := app.OpenRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open store", zap.Error(err))
	}
	defer closeRepo()

	if err := run(ctx, mode, cfg, repo, logger); err != nil {
		logger.Error("ingest failed", zap.String("mode", mode), zap.Error(err))
		closeRepo()
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, cfg app.Config, repo *store.Repository, logger *zap.Logger) error {
	if mode == "tests" || mode == "all" {
		if err := os.MkdirAll(cfg.ImagesDir, 0o755); err != nil {
			return fmt.Errorf("create images dir: %w", err)
		}
		images := imagestore.New(ctx, cfg.ImagesDir, repo,
			imagestore.NewTerminalResolver(os.Stdin, os.Stdout), logger.Named("images"))
		parser := question.NewParser(images, logger.Named("parser"))
		importer := question.NewImporter(question.NewMammothConverter(cfg.ConverterBin), parser, repo, cfg.ExamLength, logger.Named("tests"))

		res, err := importer.ImportDirectory(ctx, cfg.TestsDir)
		if err != nil {
			return err
		}
		logger.Info("tests imported",
			zap.Ints("parsed", res.Parsed),
			zap.Int("failed", len(res.Failed)),
			zap.Int("questions", res.Questions),
			zap.Int("tests", res.Tests),
			zap.Int("warnings", len(res.Report.Warnings)),
		)
	}

	if mode == "solutions" || mode == "all" {
		importer := answerkey.NewImporter(repo, logger.Named("solutions"))
		res, err := importer.ImportDirectory(ctx, cfg.SolutionsDir)
		if err != nil {
			return err
		}
		logger.Info("answer key imported",
			zap.Strings("sheets", res.Sheets),
			zap.Int("failed", len(res.Failed)),
			zap.Int("solutions", res.Solutions),
			zap.Int("warnings", len(res.Report.Warnings)),
		)
	}
	return nil
}
