package main

// Command names
const (
	CmdNameRender  = "render"
	CmdNameCheck   = "check"
	CmdNameVersion = "version"
	CmdNameHelp    = "help"
)

// Flag names - long form
const (
	FlagTemplate = "template"
	FlagData     = "data"
	FlagDataFile = "data-file"
	FlagOutput   = "output"
	FlagQuiet    = "quiet"
	FlagFormat   = "format"
	FlagMaxDepth = "max-depth"
)

// Flag names - short form
const (
	FlagTemplateShort = "t"
	FlagDataShort     = "d"
	FlagDataFileShort = "f"
	FlagOutputShort   = "o"
	FlagQuietShort    = "q"
	FlagFormatShort   = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess      = 0
	ExitCodeError        = 1
	ExitCodeUsageError   = 2
	ExitCodeCompileError = 3
	ExitCodeInputError   = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingTemplate   = "template source required"
	ErrMsgInvalidData       = "invalid data"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgCompileFailed     = "template compilation failed"
	ErrMsgInvalidFormat     = "invalid output format"
)

// Help text templates
const (
	HelpMainUsage = `go-fern - Template directive engine CLI

Usage:
    fern <command> [options]

Commands:
    render      Render a template with data
    check       Compile a template without rendering
    version     Show version information
    help        Show help for a command

Use "fern help <command>" for more information about a command.`

	HelpRenderUsage = `Render a template with data

Usage:
    fern render [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -d, --data <json>       JSON data string
    -f, --data-file <file>  JSON or YAML data file
    -o, --output <file>     Output file (default: stdout)
    -q, --quiet             Suppress non-error output
    --max-depth <n>         Maximum directive nesting depth (0 = unlimited)

Examples:
    fern render -t template.txt -d '{"name": "Alice"}'
    fern render -t template.txt -f data.yaml
    cat template.txt | fern render -t - -d '{"name": "Bob"}'
    fern render -t template.txt -f data.json -o output.txt`

	HelpCheckUsage = `Compile a template without rendering

Usage:
    fern check [options]

Options:
    -t, --template <file>   Template file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --max-depth <n>         Maximum directive nesting depth (0 = unlimited)

Examples:
    fern check -t template.txt
    cat template.txt | fern check -t -
    fern check -t template.txt -F json`

	HelpVersionUsage = `Show version information

Usage:
    fern version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    fern help [command]

Commands:
    render      Show help for render command
    check       Show help for check command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-fern version %s\nGo: %s"
)

// Check output format templates
const (
	CheckTextSuccess     = "Template is valid"
	CheckTextErrorFormat = "Compile error at line %d, column %d: %s"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
