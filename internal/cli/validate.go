package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cosmoclicker/internal/catalog"
	"github.com/roach88/cosmoclicker/internal/config"
)

// Validation error codes.
const (
	ErrCodeUnreadable  = "E_UNREADABLE"
	ErrCodeUnknownKind = "E_UNKNOWN_KIND"
	ErrCodeBalance     = "E_BALANCE"
	ErrCodeCatalog     = "E_CATALOG"
)

// ValidationIssue is one problem found in a file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Kind   string            `json:"kind"` // "balance" or "catalog"
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a balance or catalog file",
		Long: `Validate a balance YAML file (.yaml, .yml) or a catalog CUE file (.cue)
without touching any save.

Balance files are decoded strictly, so unknown keys are errors, and then
range-checked. Catalog files are unified with the built-in schema and must
only use known ids.

Examples:
  cosmoclicker validate ./balance.yaml
  cosmoclicker validate ./catalog.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	var kind string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		kind = "balance"
	case ".cue":
		kind = "catalog"
	default:
		return outputValidateError(formatter, ErrCodeUnknownKind,
			fmt.Sprintf("cannot tell what %s is: expected .yaml, .yml or .cue", path), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return outputValidateError(formatter, ErrCodeUnreadable, err.Error(), nil)
	}
	formatter.VerboseLog("Validating %s file %s (%d bytes)", kind, path, len(data))

	var issues []ValidationIssue
	if kind == "balance" {
		issues = validateBalance(data)
	} else {
		issues = validateCatalog(data)
	}

	if len(issues) > 0 {
		return outputValidationErrors(formatter, kind, issues)
	}
	return outputValidateSuccess(formatter, kind)
}

// validateBalance decodes and range-checks a balance document.
func validateBalance(data []byte) []ValidationIssue {
	if _, err := config.Parse(data); err != nil {
		return []ValidationIssue{{Code: ErrCodeBalance, Message: err.Error()}}
	}
	return nil
}

// validateCatalog compiles a catalog document against the schema.
func validateCatalog(data []byte) []ValidationIssue {
	_, err := catalog.Compile(data)
	if err == nil {
		return nil
	}

	var cErr *catalog.CompileError
	if errors.As(err, &cErr) {
		issue := ValidationIssue{Code: ErrCodeCatalog, Field: cErr.Field, Message: cErr.Message}
		if cErr.Pos.IsValid() {
			issue.Line = cErr.Pos.Line()
		}
		return []ValidationIssue{issue}
	}
	return []ValidationIssue{{Code: ErrCodeCatalog, Message: err.Error()}}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, kind string) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: true, Kind: kind}
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ %s file valid\n", kind)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Unreadable or unrecognised files are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, kind string, errs []ValidationIssue) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Kind:   kind,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
