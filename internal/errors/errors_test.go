package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/vroute/pkg/router"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E103",
			wantMsg: "Invalid port",
			wantCat: CategoryConfig,
		},
		{
			name:    "routing error",
			code:    "E201",
			wantMsg: "No matching route",
			wantCat: CategoryRouting,
		},
		{
			name:    "module error",
			code:    "E300",
			wantMsg: "View module failed to load",
			wantCat: CategoryModule,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "argument %q is not key=value", "id")
	if err.Message != `argument "id" is not key=value` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E202")
	if got, want := err.Error(), "E202: Unknown route"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err2 := &Error{Message: "test error"}
	if err2.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", err2.Error(), "test error")
	}

	err3 := New("E202").Wrap(fmt.Errorf(`unknown route "Dash"`))
	if got, want := err3.Error(), `E202: Unknown route: unknown route "Dash"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_WithLocation(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "vroute.json")
	content := `{
  "name": "finance",
  "base": "/app",
  "port": 700000,
  "metrics": true
}
`
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E103").WithLocation(tmpFile, 4, 11)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != tmpFile || err.Location.Line != 4 || err.Location.Column != 11 {
		t.Errorf("Location = %+v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Fatalf("Context = %d lines, want 5", len(err.Context))
	}
	if !strings.Contains(err.Context[2], "700000") {
		t.Errorf("Context[2] = %q, want the port line", err.Context[2])
	}
}

func TestError_WithOffset(t *testing.T) {
	data := []byte("{\n  \"port\": x\n}")
	// Offset of "x" is 12: 2 bytes on line 1, then `  "port": ` on line 2.
	err := New("E101").WithOffset("vroute.json", data, 12)
	if err.Location.Line != 2 {
		t.Errorf("Line = %d, want 2", err.Location.Line)
	}
	if err.Location.Column != 11 {
		t.Errorf("Column = %d, want 11", err.Location.Column)
	}
}

func TestError_Builders(t *testing.T) {
	err := New("E104").
		WithDetail("custom detail").
		WithSuggestion("Use /app").
		WithExample(`{"base": "/app"}`)
	if err.Detail != "custom detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Use /app" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != `{"base": "/app"}` {
		t.Errorf("Example = %q", err.Example)
	}
}

func TestError_Wrap(t *testing.T) {
	inner := New("E301")
	outer := New("E300").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should see the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E400") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	ve := New("E103")
	if FromError(fmt.Errorf("load: %w", ve), "E400") != ve {
		t.Error("FromError should return a wrapped Error as-is")
	}

	stdErr := stderrors.New("listen tcp: address in use")
	result := FromError(stdErr, "E400")
	if result.Wrapped != stdErr {
		t.Error("standard error should be wrapped")
	}
	if result.Code != "E400" {
		t.Errorf("Code = %q, want E400", result.Code)
	}
}

func TestFromRouting(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no match", fmt.Errorf("%w: /nope", router.ErrNoMatchingRoute), "E201"},
		{"unknown route", &router.UnknownRouteError{Name: "Dash"}, "E202"},
		{"missing param", fmt.Errorf("%w: id", router.ErrMissingParam), "E203"},
		{"duplicate name", fmt.Errorf("%w: settings", router.ErrDuplicateRouteName), "E204"},
		{"invalid param", fmt.Errorf("%w: id", router.ErrInvalidParam), "E205"},
		{"aborted", fmt.Errorf("%w: /settings", router.ErrNavigationAborted), "E206"},
		{"duplicate path", fmt.Errorf("%w: /", router.ErrDuplicateRoutePath), "E200"},
		{"module load", &router.ModuleLoadError{Route: "Dashboard", Err: stderrors.New("boom")}, "E300"},
		{"other", stderrors.New("boom"), "E500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromRouting(tt.err)
			if got.Code != tt.code {
				t.Errorf("Code = %q, want %q", got.Code, tt.code)
			}
			if !stderrors.Is(got, tt.err) {
				t.Error("coded error should wrap the router error")
			}
		})
	}

	if FromRouting(nil) != nil {
		t.Error("FromRouting(nil) should return nil")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"file only", &Location{File: ".env"}, ".env"},
		{"with column", &Location{File: "vroute.json", Line: 10, Column: 5}, "vroute.json:10:5"},
		{"without column", &Location{File: "vroute.json", Line: 10}, "vroute.json:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	tmpFile := filepath.Join(t.TempDir(), "vroute.json")
	content := "{\n  \"base\": \"/app/../x\"\n}\n"
	if err := os.WriteFile(tmpFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E104").
		WithLocation(tmpFile, 2, 11).
		WithSuggestion("Use a clean prefix such as /app").
		WithExample(`{"base": "/app"}`).
		Wrap(stderrors.New("path escapes root"))

	formatted := err.Format()
	for _, want := range []string{
		"ERROR E104: Invalid base URL",
		tmpFile + ":2:11",
		`"base": "/app/../x"`,
		"Hint: Use a clean prefix such as /app",
		"Example:",
		"Cause: path escapes root",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E103").WithLocation("vroute.json", 10, 5)
	want := "vroute.json:10:5: E103: Invalid port"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("E201").WithLocation("vroute.json", 10, 5).Wrap(stderrors.New("/nope"))
	json := err.FormatJSON()

	for _, want := range []string{
		`"code":"E201"`,
		`"category":"routing"`,
		`"message":"No matching route"`,
		`"location":`,
		`"cause":"/nope"`,
	} {
		if !strings.Contains(json, want) {
			t.Errorf("FormatJSON() missing %s: %s", want, json)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, fmt.Errorf("serve: %w", New("E400")))
	if !strings.Contains(b.String(), "ERROR E400: Server failed") {
		t.Errorf("coded error output = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("plain"))
	if got := b.String(); got != "\nERROR: plain\n\n" {
		t.Errorf("plain error output = %q", got)
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	found := false
	for _, code := range codes {
		if code == "E201" {
			found = true
			break
		}
	}
	if !found {
		t.Error("E201 should be in the codes list")
	}
}

func TestGetTemplate(t *testing.T) {
	template, ok := GetTemplate("E204")
	if !ok {
		t.Fatal("E204 should exist")
	}
	if template.Message != "Duplicate route name" {
		t.Errorf("Message = %q", template.Message)
	}

	if _, ok := GetTemplate("E999"); ok {
		t.Error("E999 should not exist")
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryServer,
		Message:  "Custom test error",
		Detail:   "This is a test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got = wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("load: %w", New("E100"))); got != "E100" {
		t.Errorf("CodeOf() = %q, want E100", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
		code string
	}{
		{"", OutputText, ""},
		{"text", OutputText, ""},
		{"compact", OutputCompact, ""},
		{"json", OutputJSON, ""},
		{"yaml", "", "E500"},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if got != tt.want || CodeOf(err) != tt.code {
			t.Errorf("ParseOutputFormat(%q) = (%q, %v), want (%q, code %q)", tt.in, got, err, tt.want, tt.code)
		}
	}
}

func TestFprintAs(t *testing.T) {
	DisableColors()
	defer EnableColors()

	coded := New("E201").Wrap(fmt.Errorf("%w: /nope", router.ErrNoMatchingRoute))
	plain := stderrors.New("disk full")

	tests := []struct {
		name   string
		err    error
		format OutputFormat
		want   string
	}{
		{"compact", coded, OutputCompact, "E201: No matching route\n"},
		{"compact plain", plain, OutputCompact, "E500: Invalid argument\n"},
		{"json", coded, OutputJSON, `"cause":"no matching route: /nope"}` + "\n"},
		{"json plain", plain, OutputJSON, `"code":"E500"`},
		{"text", coded, OutputText, "ERROR E201: No matching route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf strings.Builder
			FprintAs(&buf, tt.err, tt.format)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}
