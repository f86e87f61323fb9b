package fern

// Metadata key constants for structured errors
const (
	MetaKeyLine      = "line"
	MetaKeyColumn    = "column"
	MetaKeyOffset    = "offset"
	MetaKeyKind      = "kind"
	MetaKeyDirective = "directive"
	MetaKeyExpected  = "expected"
	MetaKeyFound     = "found"
	MetaKeyTemplate  = "template"
	MetaKeyVersion   = "version"
)

// Storage driver name constants
const (
	StoreDriverNameMemory     = "memory"
	StoreDriverNameFilesystem = "filesystem"
	StoreDriverNamePostgres   = "postgres"
)

// Template ID prefix for stored templates
const TemplateIDPrefix = "tmpl_"

// Log message constants
const (
	LogMsgTemplateCompiled = "template compiled"
	LogMsgTemplateSaved    = "template saved"
)

// Log field name constants
const (
	LogFieldTemplate = "template"
	LogFieldVersion  = "version"
)
