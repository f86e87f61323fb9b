package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	fern "github.com/fernlabs/go-fern"
)

// checkConfig holds parsed check command configuration
type checkConfig struct {
	templatePath string
	format       string
	maxDepth     int
}

// checkOutput represents JSON output for check
type checkOutput struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseCheckFlags(args)
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

	engine := fern.MustNew(fern.WithMaxDepth(cfg.maxDepth))
	_, compileErr := engine.Compile(string(templateSource))

	if cfg.format == OutputFormatJSON {
		return outputCheckJSON(compileErr, stdout)
	}
	return outputCheckText(compileErr, stdout)
}

func parseCheckFlags(args []string) (*checkConfig, error) {
	fs := flag.NewFlagSet(CmdNameCheck, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &checkConfig{}

	fs.StringVar(&cfg.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")
	fs.IntVar(&cfg.maxDepth, FlagMaxDepth, 100, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.templatePath == "" {
		return nil, errors.New(ErrMsgMissingTemplate)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputCheckText(compileErr error, stdout io.Writer) int {
	if compileErr == nil {
		fmt.Fprintln(stdout, CheckTextSuccess)
		return ExitCodeSuccess
	}

	pos, _ := fern.CompileErrorPosition(compileErr)
	fmt.Fprintf(stdout, CheckTextErrorFormat+FmtNewline, pos.Line, pos.Column, compileErr.Error())
	return ExitCodeCompileError
}

func outputCheckJSON(compileErr error, stdout io.Writer) int {
	output := checkOutput{Valid: compileErr == nil}

	if compileErr != nil {
		pos, _ := fern.CompileErrorPosition(compileErr)
		output.Message = compileErr.Error()
		output.Line = pos.Line
		output.Column = pos.Column
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeCompileError
	}
	return ExitCodeSuccess
}
