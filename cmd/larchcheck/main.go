package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaspardpetit/larchmock/internal/logx"
	"github.com/gaspardpetit/larchmock/internal/reconnect"
	"github.com/gaspardpetit/larchmock/sdk/client"
	"github.com/gaspardpetit/larchmock/sdk/contracts/larch"
)

var (
	version   = "dev"
	buildSHA  = "unknown"
	buildDate = "unknown"
)

type options struct {
	URL       string
	Project   string
	Prompt    string
	Model     string
	Dir       string
	Threshold int64
	Write     bool
	Wait      bool
	Rate      float64
	Timeout   time.Duration
}

var errUnhealthy = errors.New("the LARCH server looks unhealthy")

func chooseModel(ctx context.Context, c *client.Client, requested string) (string, error) {
	models, err := c.Models(ctx)
	if err != nil {
		return "", fmt.Errorf("list models: %w", err)
	}
	if len(models) == 0 {
		return "", errors.New("the LARCH server has no generation models")
	}
	if requested == "" {
		return models[0].ID, nil
	}
	for _, m := range models {
		if m.ID == requested {
			return requested, nil
		}
	}
	logx.Log.Warn().Str("model", requested).Msg("model not advertised by the server; using it anyway")
	return requested, nil
}

func checkHealth(ctx context.Context, c *client.Client) error {
	ok, err := c.Health(ctx)
	if err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if !ok {
		return errUnhealthy
	}
	return nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	var copts []client.Option
	if opts.Rate > 0 {
		copts = append(copts, client.WithRateLimit(rate.NewLimiter(rate.Limit(opts.Rate), 1)))
	}
	c := client.New(opts.URL, copts...)
	var err error
	if opts.Wait {
		err = reconnect.Retry(ctx, func(ctx context.Context) error { return checkHealth(ctx, c) },
			func(attempt int, wait time.Duration, err error) {
				logx.Log.Info().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("server not ready; retrying")
			})
	} else {
		err = checkHealth(ctx, c)
	}
	if err != nil {
		return err
	}

	model, err := chooseModel(ctx, c, opts.Model)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return err
	}
	project := opts.Project
	if project == "" {
		project = filepath.Base(dir)
	}
	prompt := opts.Prompt
	if prompt == "" {
		existing, found, err := client.ReadExistingReadme(dir)
		if err != nil {
			return fmt.Errorf("read readme: %w", err)
		}
		if found {
			prompt = existing
		}
	}

	paths, err := client.ListFiles(dir)
	if err != nil {
		return fmt.Errorf("collect files: %w", err)
	}
	tree, err := client.BuildFileTree(dir, paths, opts.Threshold)
	if err != nil {
		return fmt.Errorf("build file tree: %w", err)
	}
	logx.Log.Debug().Str("project", project).Str("model", model).Int("files", len(paths)).Msg("generating")

	text, edits, err := c.Generate(ctx, larch.GenerationRequest{
		Files:       tree,
		Model:       model,
		Prompt:      prompt,
		ProjectName: project,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if edits != nil {
		replayed, err := larch.Apply(prompt, edits)
		switch {
		case err != nil:
			logx.Log.Warn().Err(err).Msg("edits cannot be applied to the prompt")
		case replayed != text:
			logx.Log.Warn().Int("edits", len(edits)).Msg("edits do not reproduce the generated text")
		}
	}

	if opts.Write {
		backup, err := client.WriteReadme(dir, text)
		if err != nil {
			return fmt.Errorf("write readme: %w", err)
		}
		if backup != "" {
			logx.Log.Info().Str("backup", backup).Msg("previous README.md backed up")
		}
	}
	_, err = io.WriteString(out, text)
	return err
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	logLevel := flag.String("log-level", "info", "log verbosity (all, debug, info, warn, error, fatal, none)")
	var opts options
	flag.StringVar(&opts.URL, "url", "http://localhost:8000", "base URL of the LARCH server")
	flag.StringVar(&opts.Project, "project", "", "project name (defaults to the directory name)")
	flag.StringVar(&opts.Prompt, "prompt", "", "prompt text (defaults to the existing README of --dir)")
	flag.StringVar(&opts.Model, "model", "", "generation model (defaults to the first advertised model)")
	flag.StringVar(&opts.Dir, "dir", ".", "project directory sent as the file tree")
	flag.Int64Var(&opts.Threshold, "file-size-threshold", client.DefaultFileSizeThreshold, "files of at least this many bytes are sent without content")
	flag.BoolVar(&opts.Write, "write", false, "write the result to README.md in --dir, backing up the previous one")
	flag.BoolVar(&opts.Wait, "wait", false, "retry the health check until the server is up or --timeout expires")
	flag.Float64Var(&opts.Rate, "rate", 0, "maximum requests per second sent to the server, including --wait probes (0 for no limit)")
	flag.DurationVar(&opts.Timeout, "timeout", time.Minute, "overall timeout")
	flag.Parse()
	if *showVersion {
		fmt.Printf("larchcheck version=%s sha=%s date=%s\n", version, buildSHA, buildDate)
		return
	}
	logx.Configure(*logLevel)

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := run(ctx, opts, os.Stdout); err != nil {
		logx.Log.Error().Err(err).Msg("larchcheck failed")
		cancel()
		os.Exit(1)
	}
}
