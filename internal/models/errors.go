package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode identifies the stage of the launch that failed
type ErrorCode string

const (
	// 清单缺少必需属性或属性值非法
	ErrorCodeConfiguration ErrorCode = "CONFIGURATION"
	// 负载文件复制到缓存目录失败
	ErrorCodeMaterialization ErrorCode = "MATERIALIZATION"
	// 找不到运行时可执行文件或操作系统拒绝创建进程
	ErrorCodeLaunch ErrorCode = "LAUNCH"
)

/**
 * KapselError is an error raised by one of the launch stages
 * @property {ErrorCode} Code - Stage that failed
 * @property {string} Message - Primary error message
 * @property {map[string]interface{}} Context - Additional details (attribute, path, ...)
 * @property {error} Cause - Underlying error, if any
 * @property {string} Suggestion - Actionable hint for the user
 */
type KapselError struct {
	Code       ErrorCode
	Message    string
	Context    map[string]interface{}
	Cause      error
	Suggestion string
}

func (e *KapselError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var contextParts []string
		for _, k := range keys {
			contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		parts = append(parts, fmt.Sprintf("Context: %s", strings.Join(contextParts, ", ")))
	}

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("Cause: %v", e.Cause))
	}

	if e.Suggestion != "" {
		parts = append(parts, fmt.Sprintf("Suggestion: %s", e.Suggestion))
	}

	return strings.Join(parts, "; ")
}

// Unwrap returns the underlying error for errors.Is/As
func (e *KapselError) Unwrap() error {
	return e.Cause
}

func NewError(code ErrorCode, message string) *KapselError {
	return &KapselError{
		Code:    code,
		Message: message,
		Context: make(map[string]interface{}),
	}
}

func (e *KapselError) WithContext(key string, value interface{}) *KapselError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *KapselError) WithCause(cause error) *KapselError {
	e.Cause = cause
	return e
}

func (e *KapselError) WithSuggestion(suggestion string) *KapselError {
	e.Suggestion = suggestion
	return e
}

// ErrMissingAttribute reports a required manifest attribute that is absent or blank
func ErrMissingAttribute(attribute string) *KapselError {
	return NewError(ErrorCodeConfiguration,
		fmt.Sprintf("attribute %s not found in the manifest", attribute)).
		WithContext("attribute", attribute).
		WithSuggestion("Rebuild the bundle with a manifest that sets " + attribute)
}

// ErrInvalidManifest reports a manifest that cannot be parsed or holds an illegal value
func ErrInvalidManifest(reason string, cause error) *KapselError {
	return NewError(ErrorCodeConfiguration,
		fmt.Sprintf("invalid manifest: %s", reason)).
		WithCause(cause)
}

// ErrInvalidSettings reports an environment setting that cannot be used
func ErrInvalidSettings(variable string, value interface{}, reason string) *KapselError {
	return NewError(ErrorCodeConfiguration,
		fmt.Sprintf("invalid setting: %s", reason)).
		WithContext("variable", variable).
		WithContext("value", value)
}

// ErrPayloadMissing reports a declared payload item that is absent from the bundle
func ErrPayloadMissing(item string, cause error) *KapselError {
	return NewError(ErrorCodeMaterialization,
		fmt.Sprintf("payload item '%s' not found in the bundle", item)).
		WithContext("item", item).
		WithCause(cause).
		WithSuggestion("Check Kapsel-Class-Path against the files packed into the bundle")
}

// ErrPayloadWrite reports a cache write failure (permission, disk full, ...)
func ErrPayloadWrite(path string, cause error) *KapselError {
	return NewError(ErrorCodeMaterialization,
		fmt.Sprintf("failed to write '%s'", path)).
		WithContext("path", path).
		WithCause(cause).
		WithSuggestion("Check the permissions and free space of the cache directory, or set KAPSEL_CACHE")
}

// ErrRuntimeNotFound reports that no runtime executable could be located
func ErrRuntimeNotFound(binary string, cause error) *KapselError {
	return NewError(ErrorCodeLaunch,
		fmt.Sprintf("runtime executable '%s' not found", binary)).
		WithContext("binary", binary).
		WithCause(cause).
		WithSuggestion("Install a Java runtime, or point KAPSEL_JAVA or JAVA_HOME at one")
}

// ErrSpawnFailed reports that the operating system refused to start the runtime
func ErrSpawnFailed(executable string, cause error) *KapselError {
	return NewError(ErrorCodeLaunch,
		fmt.Sprintf("failed to start '%s'", executable)).
		WithContext("executable", executable).
		WithCause(cause)
}

// IsErrorCode checks if err, or any error it wraps, is a KapselError with the code
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode returns the code of the first KapselError in the chain, or ""
func GetErrorCode(err error) ErrorCode {
	var kerr *KapselError
	if errors.As(err, &kerr) {
		return kerr.Code
	}
	return ""
}
