package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "template error",
			code:    CodeInvalidExpression,
			wantMsg: "Invalid binding expression",
			wantCat: CategoryTemplate,
		},
		{
			name:    "lifecycle error",
			code:    CodeDisposed,
			wantMsg: "Component disposed",
			wantCat: CategoryLifecycle,
		},
		{
			name:    "config error",
			code:    CodeConfigParse,
			wantMsg: "Failed to parse config file",
			wantCat: CategoryConfig,
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
	err := Newf(CategoryData, "file %q not found", "data.yaml")
	if err.Message != `file "data.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "data.yaml" not found`)
	}
	if err.Category != CategoryData {
		t.Errorf("Category = %q, want %q", err.Category, CategoryData)
	}
}

func TestBindError_Error(t *testing.T) {
	err := New(CodeUnterminated).WithDetail(`"{{name"`)
	want := `E002: Unterminated interpolation ("{{name")`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &BindError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestUnwrapAndIs(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := New(CodeConfigRead).Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeConfigRead)) {
		t.Error("errors.Is should match by code")
	}
	if stderrors.Is(err, New(CodeConfigParse)) {
		t.Error("errors.Is should not match a different code")
	}

	var be *BindError
	if !stderrors.As(fmt.Errorf("wrapped: %w", err), &be) || be.Code != CodeConfigRead {
		t.Error("errors.As should extract the BindError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeDataDecode) != nil {
		t.Error("FromError(nil) should be nil")
	}
	orig := New(CodeDisposed)
	if FromError(orig, CodeDataDecode) != orig {
		t.Error("FromError should pass BindErrors through")
	}
	got := FromError(fmt.Errorf("bad"), CodeDataDecode)
	if got.Code != CodeDataDecode || got.Wrapped == nil {
		t.Errorf("FromError = %+v, want wrapped E301", got)
	}
}

func TestWithSourceLocation(t *testing.T) {
	src := "<a>\n  <b title=\"{{x.}}\">"
	err := New(CodeInvalidExpression).WithSourceLocation("card.html", src, strings.Index(src, "{{"))
	if err.Location.Line != 2 || err.Location.Column != 13 {
		t.Errorf("Location = %s, want card.html:2:13", err.Location)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{name: "nil location", loc: nil, want: ""},
		{name: "file only", loc: &Location{File: "card.html"}, want: "card.html"},
		{name: "with column", loc: &Location{File: "card.html", Line: 10, Column: 5}, want: "card.html:10:5"},
		{name: "without column", loc: &Location{File: "card.html", Line: 10}, want: "card.html:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vbind.yaml")
	content := "a: 1\nb: 2\nc: [\nd: 4\ne: 5\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New(CodeConfigParse).WithLocation(file, 3, 4)
	if len(err.Context) != 5 {
		t.Fatalf("Context lines = %d, want 5", len(err.Context))
	}
	if err.Context[2] != "c: [" {
		t.Errorf("Context[2] = %q, want %q", err.Context[2], "c: [")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	src := "<div>\n  <a title=\"{{a.}}\">x</a>\n</div>"
	err := New(CodeInvalidExpression).
		WithSourceLocation("card.html", src, strings.Index(src, "{{")).
		WithDetail(`unexpected end of expression in "a."`)

	out := err.Format()
	for _, want := range []string{
		"ERROR E001: Invalid binding expression [template]",
		"card.html:2:13",
		"       1 │ <div>",
		"  →    2 │   <a title=\"{{a.}}\">x</a>",
		"       │             ^",
		"       3 │ </div>",
		`unexpected end of expression in "a."`,
		"Hint: Expressions support paths",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); !strings.HasPrefix(got, "card.html:2:13: E001: Invalid binding expression") {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestFormatCauseChain(t *testing.T) {
	DisableColors()
	defer EnableColors()

	inner := New(CodeDataDecode).WithDetail("line 3").Wrap(fmt.Errorf("yaml: mapping values are not allowed"))
	err := New(CodeConfigParse).Wrap(inner)

	out := err.Format()
	for _, want := range []string{
		"  Cause: E301: Failed to decode data (line 3)\n",
		"         yaml: mapping values are not allowed\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q in:\n%s", want, out)
		}
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 || codes[0] != CodeInvalidExpression {
		t.Errorf("GetAllCodes() = %v, want sorted codes starting with E001", codes)
	}
	if _, ok := GetTemplate(CodeDisposed); !ok {
		t.Error("GetTemplate(E102) should exist")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
}
