package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered error codes.
const (
	CodeInvalidExpression = "E001"
	CodeUnterminated      = "E002"
	CodeMalformedMarkup   = "E003"
	CodeAlreadyAttached   = "E101"
	CodeDisposed          = "E102"
	CodeConfigRead        = "E201"
	CodeConfigParse       = "E202"
	CodeConfigInvalid     = "E203"
	CodeDataDecode        = "E301"
	CodeProtocolDecode    = "E401"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Template errors (E001-E099)
	CodeInvalidExpression: {
		Category:   CategoryTemplate,
		Message:    "Invalid binding expression",
		Suggestion: "Expressions support paths (a.b[0]), quoted strings, numbers, true/false/null and +.",
	},
	CodeUnterminated: {
		Category:   CategoryTemplate,
		Message:    "Unterminated interpolation",
		Suggestion: "Close every {{ with a matching }}.",
	},
	CodeMalformedMarkup: {
		Category: CategoryTemplate,
		Message:  "Malformed template markup",
	},

	// Lifecycle errors (E100-E199)
	CodeAlreadyAttached: {
		Category:   CategoryLifecycle,
		Message:    "Component already attached",
		Suggestion: "Dispose the component and create a new one to attach elsewhere.",
	},
	CodeDisposed: {
		Category: CategoryLifecycle,
		Message:  "Component disposed",
	},

	// Config errors (E200-E299)
	CodeConfigRead: {
		Category: CategoryConfig,
		Message:  "Failed to read config file",
	},
	CodeConfigParse: {
		Category:   CategoryConfig,
		Message:    "Failed to parse config file",
		Suggestion: "Check vbind.yaml for indentation and type errors.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},

	// Data errors (E300-E399)
	CodeDataDecode: {
		Category:   CategoryData,
		Message:    "Failed to decode data",
		Suggestion: "Initial data must be a YAML or JSON mapping at the top level.",
	},

	// Protocol errors (E400-E499)
	CodeProtocolDecode: {
		Category: CategoryProtocol,
		Message:  "Failed to decode patch frame",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
