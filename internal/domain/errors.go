package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category groups error codes by how a caller is expected to react.
type Category string

const (
	CategoryInput        Category = "input_error"
	CategoryPrecondition Category = "precondition_error"
	CategoryAmbiguity    Category = "ambiguity_error"
	CategorySafety       Category = "safety_error"
	CategoryExternalTool Category = "external_tool_error"
)

// Code identifies a single failure case.
type Code string

// Error codes
const (
	ErrCodeInvalidArgument Code = "INVALID_ARGUMENT"

	ErrCodeOutputAlreadyExists        Code = "OUTPUT_ALREADY_EXISTS"
	ErrCodeDistDirMissing             Code = "DIST_DIR_MISSING"
	ErrCodeArchiveNotFound            Code = "ARCHIVE_NOT_FOUND"
	ErrCodeBinaryNotFoundInArchive    Code = "BINARY_NOT_FOUND_IN_ARCHIVE"
	ErrCodeUnexpectedDirectory        Code = "UNEXPECTED_DIRECTORY"
	ErrCodeUnsupportedArchiveEntry    Code = "UNSUPPORTED_ARCHIVE_ENTRY"
	ErrCodeMissingManifestTemplate    Code = "MISSING_MANIFEST_TEMPLATE"
	ErrCodeManifestInvalid            Code = "MANIFEST_INVALID"
	ErrCodeManifestHasExplicitVersion Code = "MANIFEST_HAS_EXPLICIT_VERSION"
	ErrCodeManifestUnrecognizedField  Code = "MANIFEST_UNRECOGNIZED_FIELD"
	ErrCodeMissingBinScaffold         Code = "MISSING_BIN_SCAFFOLD"
	ErrCodeMissingReadme              Code = "MISSING_README"
	ErrCodeVendorTreeMissing          Code = "VENDOR_TREE_MISSING"
	ErrCodeLicenseMissing             Code = "LICENSE_MISSING"
	ErrCodeStagingAlreadyExists       Code = "STAGING_ALREADY_EXISTS"
	ErrCodeStagingPathNotADirectory   Code = "STAGING_PATH_NOT_A_DIRECTORY"

	ErrCodeAmbiguousArchive         Code = "AMBIGUOUS_ARCHIVE"
	ErrCodeAmbiguousBinaryInArchive Code = "AMBIGUOUS_BINARY_IN_ARCHIVE"

	ErrCodeUnsafeArchivePath Code = "UNSAFE_ARCHIVE_PATH"

	ErrCodeArchiveUnreadable         Code = "ARCHIVE_UNREADABLE"
	ErrCodePackToolFailed            Code = "PACK_TOOL_FAILED"
	ErrCodePackToolOutputUnparseable Code = "PACK_TOOL_OUTPUT_UNPARSEABLE"
	ErrCodePackToolOutputEmpty       Code = "PACK_TOOL_OUTPUT_EMPTY"
)

// MaxDiagnosticLength bounds captured tool output carried in error messages.
const MaxDiagnosticLength = 512

var codeCategories = map[Code]Category{
	ErrCodeInvalidArgument:            CategoryInput,
	ErrCodeOutputAlreadyExists:        CategoryPrecondition,
	ErrCodeDistDirMissing:             CategoryPrecondition,
	ErrCodeArchiveNotFound:            CategoryPrecondition,
	ErrCodeBinaryNotFoundInArchive:    CategoryPrecondition,
	ErrCodeUnexpectedDirectory:        CategoryPrecondition,
	ErrCodeUnsupportedArchiveEntry:    CategoryPrecondition,
	ErrCodeMissingManifestTemplate:    CategoryPrecondition,
	ErrCodeManifestInvalid:            CategoryPrecondition,
	ErrCodeManifestHasExplicitVersion: CategoryPrecondition,
	ErrCodeManifestUnrecognizedField:  CategoryPrecondition,
	ErrCodeMissingBinScaffold:         CategoryPrecondition,
	ErrCodeMissingReadme:              CategoryPrecondition,
	ErrCodeVendorTreeMissing:          CategoryPrecondition,
	ErrCodeLicenseMissing:             CategoryPrecondition,
	ErrCodeStagingAlreadyExists:       CategoryPrecondition,
	ErrCodeStagingPathNotADirectory:   CategoryPrecondition,
	ErrCodeAmbiguousArchive:           CategoryAmbiguity,
	ErrCodeAmbiguousBinaryInArchive:   CategoryAmbiguity,
	ErrCodeUnsafeArchivePath:          CategorySafety,
	ErrCodeArchiveUnreadable:          CategoryExternalTool,
	ErrCodePackToolFailed:             CategoryExternalTool,
	ErrCodePackToolOutputUnparseable:  CategoryExternalTool,
	ErrCodePackToolOutputEmpty:        CategoryExternalTool,
}

// Category returns the group the code belongs to.
func (c Code) Category() Category {
	if cat, ok := codeCategories[c]; ok {
		return cat
	}
	return CategoryInput
}

// Error is the structured failure returned by every release pipeline stage.
type Error struct {
	Code    Code
	Message string
	// Path is the filesystem location involved, when there is one.
	Path string
	// Target names the platform target (os/arch) involved, when there is one.
	Target   string
	Expected string
	Found    []string
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Category returns the error's category.
func (e *Error) Category() Category {
	return e.Code.Category()
}

// Is matches another *Error by code so sentinel-style comparisons work.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// NewError creates a new Error with the given code and message
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with the given code and formatted message
func NewErrorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithPath records the filesystem path involved.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithTarget records the platform target involved.
func (e *Error) WithTarget(target ArchiveTarget) *Error {
	e.Target = target.String()
	return e
}

// WithFound records what was expected and what was actually found.
func (e *Error) WithFound(expected string, found ...string) *Error {
	e.Expected = expected
	e.Found = found
	return e
}

// Wrap records the underlying cause.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// Sentinel returns a code-only error usable with errors.Is.
func Sentinel(code Code) error {
	return &Error{Code: code}
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == code
}

// CategoryOf returns the category of err, or "" when err is not an *Error.
func CategoryOf(err error) Category {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Category()
}

// TruncateDiagnostic trims captured tool output to MaxDiagnosticLength bytes.
func TruncateDiagnostic(text string) string {
	return Truncate(text, MaxDiagnosticLength)
}

// Truncate trims text and cuts it to at most limit bytes, marking the cut with "...".
// The cut never splits a UTF-8 sequence.
func Truncate(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	if limit <= 3 {
		return text[:runeBoundary(text, limit)]
	}
	return text[:runeBoundary(text, limit-3)] + "..."
}

func runeBoundary(text string, n int) int {
	if n < 0 {
		return 0
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return n
}
