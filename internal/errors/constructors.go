package errors

// Config errors

func ConfigNotFound(path string) *BuilderError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *BuilderError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file is invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuilderError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Document errors

func ParseFailed(path string, cause error) *BuilderError {
	return Wrap(cause, CategoryParse, SeverityError, "document could not be read").
		WithContext("path", path)
}

func TemplateFailed(template string, cause error) *BuilderError {
	return Wrap(cause, CategoryTemplate, SeverityFatal, "template could not be filled").
		WithContext("template", template)
}

func RenderFailed(path string, cause error) *BuilderError {
	return Wrap(cause, CategoryRender, SeverityError, "document could not be rendered").
		WithContext("path", path)
}

func BuildFailed(failed int, cause error) *BuilderError {
	return Wrap(cause, CategoryRender, SeverityFatal, "build failed").
		WithContext("failed", failed)
}

// Environment errors

func FileSystemError(operation string, cause error) *BuilderError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *BuilderError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
