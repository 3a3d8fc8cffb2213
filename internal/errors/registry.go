package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vroute.json was found in the working directory or any of its parents.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "vroute.json could not be parsed as JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid environment file",
		Detail:   "A .env file could not be read.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The configured port is outside the valid TCP range.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid base URL",
		Detail:   "The base prefix must be a clean absolute path such as /app. It may not contain '..', a query or a fragment.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Unknown module source",
		Detail:   `modules.source must be one of "embed", "fs" or "s3".`,
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Missing module location",
		Detail:   "The configured module source needs a directory (fs) or a bucket (s3).",
	},
	"E107": {
		Category: CategoryConfig,
		Message:  "Invalid navigation timeout",
		Detail:   "navigationTimeout must be a Go duration such as 10s.",
	},

	// ============================================
	// Routing Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryRouting,
		Message:  "Invalid route table",
		Detail:   "Every route needs a name, a path and exactly one of an eager view or a deferred loader.",
	},
	"E201": {
		Category: CategoryRouting,
		Message:  "No matching route",
		Detail:   "No route pattern in the table matches the path.",
	},
	"E202": {
		Category: CategoryRouting,
		Message:  "Unknown route",
		Detail:   "No route in the table has this name.",
	},
	"E203": {
		Category: CategoryRouting,
		Message:  "Missing route parameter",
		Detail:   "The route pattern has a :param segment with no value.",
	},
	"E204": {
		Category: CategoryRouting,
		Message:  "Duplicate route name",
		Detail:   "Route names must be unique within a table.",
	},
	"E205": {
		Category: CategoryRouting,
		Message:  "Invalid route parameter",
		Detail:   "A :param value must fit one path segment: no \"/\", and not \".\" or \"..\".",
	},
	"E206": {
		Category: CategoryRouting,
		Message:  "Navigation aborted",
		Detail:   "A navigation middleware stopped the navigation without reporting an error.",
	},

	// ============================================
	// Module Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryModule,
		Message:  "View module failed to load",
		Detail:   "The deferred view could not be fetched or compiled. The previous view stays active.",
	},
	"E301": {
		Category: CategoryModule,
		Message:  "Module source unavailable",
		Detail:   "The module source (directory or S3 bucket) could not be reached.",
	},

	// ============================================
	// Server Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},

	// ============================================
	// CLI Errors (E500-E599)
	// ============================================

	"E500": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command line argument could not be parsed.",
	},
}

// GetAllCodes returns all registered error codes in order.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
