package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	fern "github.com/fernlabs/go-fern"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	templatePath string
	dataJSON     string
	dataFilePath string
	outputPath   string
	quiet        bool
	maxDepth     int
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingTemplate, err)
		return ExitCodeUsageError
	}

	// Read template
	templateSource, err := readInput(cfg.templatePath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	// Parse data
	data, err := loadData(cfg.dataJSON, cfg.dataFilePath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}

	// Compile and render
	engine := fern.MustNew(fern.WithMaxDepth(cfg.maxDepth))
	tmpl, err := engine.Compile(string(templateSource))
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCompileFailed, err)
		return ExitCodeCompileError
	}

	result := tmpl.Render(data)

	// Quiet suppresses stdout output; an explicit -o file is still written
	if cfg.quiet && cfg.outputPath == FlagDefaultOutput {
		return ExitCodeSuccess
	}

	// Write output
	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.dataJSON, FlagData, "", "")
	fs.StringVar(&cfg.dataJSON, FlagDataShort, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.BoolVar(&cfg.quiet, FlagQuiet, false, "")
	fs.BoolVar(&cfg.quiet, FlagQuietShort, false, "")
	fs.IntVar(&cfg.maxDepth, FlagMaxDepth, 100, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Validation
	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	return cfg, nil
}

// loadData reads render data from an inline JSON string or a file.
// Files ending in .yaml or .yml are parsed as YAML, otherwise JSON.
func loadData(jsonStr, filePath string) (map[string]any, error) {
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}

		var result map[string]any
		if strings.HasSuffix(filePath, ".yaml") || strings.HasSuffix(filePath, ".yml") {
			if err := yaml.Unmarshal(data, &result); err != nil {
				return nil, err
			}
		} else {
			if err := json.Unmarshal(data, &result); err != nil {
				return nil, err
			}
		}
		return result, nil
	}

	if jsonStr == "" {
		// No data provided, render against an empty scope
		return make(map[string]any), nil
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, err
	}

	return result, nil
}
