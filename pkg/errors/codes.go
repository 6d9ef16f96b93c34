package errors

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK          ErrorCode = "OK"
	CodeUnknown     ErrorCode = "COMMON_000"
	CodeInternal    ErrorCode = "COMMON_001"
	CodeInvalidArg  ErrorCode = "COMMON_002"
	CodeNotFound    ErrorCode = "COMMON_005"
	CodeTimeout     ErrorCode = "COMMON_009"
	CodeCacheError  ErrorCode = "COMMON_013"
	CodeUnavailable ErrorCode = "COMMON_014"
)

// Configuration and startup error codes.
const (
	CodeConfigInvalid     ErrorCode = "CFG_001"
	CodeOutputUnavailable ErrorCode = "CFG_002"
	CodeToolNotFound      ErrorCode = "CFG_003"
)

// Fingerprint module error codes.
const (
	CodeFingerprintUnknown          ErrorCode = "FP_001"
	CodeFingerprintGenerationFailed ErrorCode = "FP_002"
	CodeFingerprintParseFailed      ErrorCode = "FP_003"
	CodeQueryEncodingFailed         ErrorCode = "FP_004"
	CodeQueryDecodingFailed         ErrorCode = "FP_005"
	CodeDatabaseBlobMalformed       ErrorCode = "FP_006"
)

// Lookup tables and storage error codes.
const (
	CodeLookupLoadFailed ErrorCode = "DB_001"
	CodeLookupMalformed  ErrorCode = "DB_002"
	CodeBlobSourceFailed ErrorCode = "DB_003"
	CodeBlobNotFound     ErrorCode = "DB_004"
)

// Prediction pipeline error codes.
const (
	CodeScoringFailed ErrorCode = "PRED_001"
	CodeOutputFailed  ErrorCode = "PRED_002"
	CodeStarved       ErrorCode = "PRED_003"
	CodePublishFailed ErrorCode = "PRED_004"
	CodeNoMolecules   ErrorCode = "PRED_005"
)

//Personal.AI order the ending
