package engine

// Infrastructure keys used internally by the engine.
const (
	InternalStepOutput = "__step_output"
)

// Output keys shared by the runner's handlers and the checkers.
const (
	KeyKind         = "kind"
	KeyID           = "id"
	KeyErrorMessage = "ErrorMessage"
	KeyErrorCode    = "ErrorCode"
	KeyDuration     = "duration"
	KeyError        = "error"
)

// Step parameter names understood by the engine itself.
const (
	ParamDuration   = "duration"
	ParamDurationMS = "duration_ms"
)

// ValuePresent as an expected value only requires the key to exist.
const ValuePresent = "present"

// Checker registration names, as they appear under a step's expect.
const (
	CheckerNameDefault       = "default"
	CheckerNameSaveAs        = "save_as"
	CheckerNameContains      = "contains"
	CheckerNameErrorContains = "error_contains"
	CheckerNameNoError       = "no_error"
	CheckerNameDurationUnder = "duration_under"
	CheckerNameValueInRange  = "in_range"
)
