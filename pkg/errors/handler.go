package errors

import (
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"
)

// Exit codes returned by the command line
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitNotFound = 3
	ExitFormat   = 4
	ExitIO       = 5
)

// ErrorHandler reports errors to the user and picks the process exit code
type ErrorHandler struct {
	logger *zap.Logger
	out    io.Writer
	debug  bool
}

// NewErrorHandler creates a new error handler writing to out
func NewErrorHandler(logger *zap.Logger, out io.Writer, debug bool) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{logger: logger, out: out, debug: debug}
}

// Handle prints err and returns the exit code for it
func (h *ErrorHandler) Handle(err error) int {
	if err == nil {
		return ExitOK
	}

	code := ExitCode(err)
	appErr := GetAppError(err)
	if appErr == nil {
		h.logger.Error("Unhandled error", zap.Error(err), zap.Int("exit_code", code))
		_, _ = fmt.Fprintf(h.out, "graphedit: %v\n", err)
		return code
	}

	h.logError(appErr, code)
	_, _ = fmt.Fprintf(h.out, "graphedit: %v\n", err)
	for _, key := range sortedKeys(appErr.Details) {
		_, _ = fmt.Fprintf(h.out, "  %s: %v\n", key, appErr.Details[key])
	}
	if h.debug && appErr.StackTrace != "" {
		_, _ = fmt.Fprintf(h.out, "%s\n", appErr.StackTrace)
	}
	return code
}

// ExitCode maps an error to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	appErr := GetAppError(err)
	if appErr == nil {
		return ExitFailure
	}
	switch appErr.Type {
	case ErrorTypeValidation:
		return ExitUsage
	case ErrorTypeNotFound:
		return ExitNotFound
	case ErrorTypeFormat, ErrorTypeDuplicateTrait, ErrorTypeDanglingReference:
		return ExitFormat
	case ErrorTypeIO, ErrorTypeDatabase:
		return ExitIO
	default:
		return ExitFailure
	}
}

// logError logs an application error with a level matching its severity
func (h *ErrorHandler) logError(err *AppError, code int) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.Int("exit_code", code),
	}
	if err.Code != "" {
		fields = append(fields, zap.String("error_code", err.Code))
	}
	if err.Cause != nil {
		fields = append(fields, zap.Error(err.Cause))
	}
	if err.Details != nil {
		fields = append(fields, zap.Any("details", err.Details))
	}

	switch err.Type {
	case ErrorTypeInternal, ErrorTypeIO, ErrorTypeDatabase:
		h.logger.Error(err.Message, fields...)
	default:
		h.logger.Debug(err.Message, fields...)
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
