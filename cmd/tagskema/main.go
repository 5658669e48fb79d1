package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gojson "github.com/goccy/go-json"
	"go.uber.org/zap"

	tagskema "github.com/reoring/tagskema"
	"github.com/reoring/tagskema/internal/samples"
	js "github.com/reoring/tagskema/jsonschema"
	"github.com/reoring/tagskema/observe"
	"github.com/reoring/tagskema/source"
)

// target erases the domain type of a registered schema so the commands can
// work on any of them.
type target struct {
	check  func(ctx context.Context, format string, data []byte, opt tagskema.ParseOpt) ([]byte, error)
	schema func() (*js.Schema, error)
}

func targetOf[T any](s tagskema.Schema[T]) target {
	return target{
		check: func(ctx context.Context, format string, data []byte, opt tagskema.ParseOpt) ([]byte, error) {
			var (
				v   T
				err error
			)
			if format == "yaml" {
				v, err = tagskema.ParseBytes(ctx, s, source.YAML(), data, opt)
			} else {
				v, err = tagskema.ParseJSON(ctx, s, data, opt)
			}
			if err != nil {
				return nil, err
			}
			return tagskema.SerializeJSON(ctx, s, v)
		},
		schema: s.JSONSchema,
	}
}

var targets = map[string]target{
	"example-code-sample":    targetOf(samples.ExampleCodeSampleSchema),
	"test-submission-status": targetOf(samples.TestSubmissionStatusSchema),
	"invalid-request-cause":  targetOf(samples.InvalidRequestCauseSchema),
	"container-value":        targetOf(samples.ContainerValueSchema()),
	"field-value":            targetOf(samples.FieldValueSchema()),
}

func main() {
	level := observe.Level(os.Getenv("TAGSKEMA_LOG_LEVEL"))
	logger, err := observe.NewLogger(observe.Config{Level: level, Component: "tagskema"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, logger))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "tagskema CLI\n\nUsage:\n  tagskema check -type NAME [-format json|yaml] [-max-depth N] [-fail-fast] [-reject-dup] FILE|-\n  tagskema schema -type NAME\n  tagskema types\n\nNotes:\n  - check prints the canonical JSON form of a valid document, or one line per issue and exit status 1.")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log *zap.Logger) int {
	if len(args) < 1 {
		usage(stdout)
		return 2
	}
	switch args[0] {
	case "check":
		return checkCmd(ctx, args[1:], stdin, stdout, log)
	case "schema":
		return schemaCmd(args[1:], stdout, log)
	case "types":
		for _, n := range targetNames() {
			fmt.Fprintln(stdout, n)
		}
		return 0
	default:
		usage(stdout)
		return 2
	}
}

func checkCmd(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log *zap.Logger) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var (
		typ, format string
		opt         tagskema.ParseOpt
		colored     bool
	)
	fs.StringVar(&typ, "type", "", "registered type name (see `tagskema types`)")
	fs.StringVar(&format, "format", "", "input format: json or yaml (default: by file extension)")
	fs.IntVar(&opt.MaxDepth, "max-depth", 0, "nesting limit; 0 uses the default, negative disables")
	fs.BoolVar(&opt.FailFast, "fail-fast", false, "stop at the first issue")
	fs.BoolVar(&opt.RejectDuplicateKeys, "reject-dup", false, "report duplicate object keys (json only)")
	fs.BoolVar(&colored, "color", true, "colorize the issue report when stdout is a terminal")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	t, ok := lookup(typ, log)
	if !ok {
		return 2
	}
	path := fs.Arg(0)
	data, err := readInput(path, stdin)
	if err != nil {
		log.Error("read input", zap.String("path", path), zap.Error(err))
		return 1
	}
	if format == "" {
		format = formatOf(path)
	}
	out, err := t.check(ctx, format, data, opt)
	if err != nil {
		observe.LogIssues(log, "document rejected", err)
		writeReport(stdout, err, colored && isTerminal(stdout))
		return 1
	}
	log.Debug("document accepted", zap.String("type", typ), zap.String("format", format))
	fmt.Fprintln(stdout, string(out))
	return 0
}

func schemaCmd(args []string, stdout io.Writer, log *zap.Logger) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stdout)
	var typ string
	fs.StringVar(&typ, "type", "", "registered type name")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	t, ok := lookup(typ, log)
	if !ok {
		return 2
	}
	s, err := t.schema()
	if err != nil {
		log.Error("build json schema", zap.String("type", typ), zap.Error(err))
		return 1
	}
	// go-json's indent encoder crashes on the recursive Schema type, so
	// encode compactly and indent the bytes.
	b, err := gojson.Marshal(s)
	if err != nil {
		log.Error("encode json schema", zap.Error(err))
		return 1
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, b, "", "  "); err != nil {
		log.Error("indent json schema", zap.Error(err))
		return 1
	}
	fmt.Fprintln(stdout, buf.String())
	return 0
}

func lookup(name string, log *zap.Logger) (target, bool) {
	t, ok := targets[name]
	if !ok {
		log.Error("unknown type", zap.String("type", name), zap.Strings("known", targetNames()))
	}
	return t, ok
}

func targetNames() []string {
	names := make([]string, 0, len(targets))
	for n := range targets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
