package errors

// ErrorCode is the machine readable code returned in API error bodies
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 200

	// General
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS    ErrorCode = 1003
	ErrorCode_PERMISSION_DENIED ErrorCode = 1004
	ErrorCode_UNAUTHENTICATED   ErrorCode = 1005
	ErrorCode_FORBIDDEN         ErrorCode = 1006
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1007
	ErrorCode_RATE_LIMITED      ErrorCode = 1008

	// Authentication
	ErrorCode_AUTH_INVALID_TOKEN ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED ErrorCode = 2001
	ErrorCode_AUTH_BAD_SIGNATURE ErrorCode = 2002

	// Ingestion
	ErrorCode_INGEST_INPUT_TOO_SHORT      ErrorCode = 3000
	ErrorCode_INGEST_TRANSCRIPTION_FAILED ErrorCode = 3001
	ErrorCode_INGEST_PROCESSING_FAILED    ErrorCode = 3002
	ErrorCode_INGEST_UPLOAD_FAILED        ErrorCode = 3003

	// Review / merge
	ErrorCode_SUGGESTION_ALREADY_REVIEWED ErrorCode = 4000
	ErrorCode_SUGGESTION_INVALID          ErrorCode = 4001
	ErrorCode_MERGE_INVALID               ErrorCode = 4100

	// Integration
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002

	// Database
	ErrorCode_DB_QUERY_FAILED       ErrorCode = 6000
	ErrorCode_DB_TRANSACTION_FAILED ErrorCode = 6001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_PERMISSION_DENIED:               "PERMISSION_DENIED",
	ErrorCode_UNAUTHENTICATED:                 "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                       "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_RATE_LIMITED:                    "RATE_LIMITED",
	ErrorCode_AUTH_INVALID_TOKEN:              "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:              "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_BAD_SIGNATURE:              "AUTH_BAD_SIGNATURE",
	ErrorCode_INGEST_INPUT_TOO_SHORT:          "INPUT_TOO_SHORT",
	ErrorCode_INGEST_TRANSCRIPTION_FAILED:     "TRANSCRIPTION_FAILED",
	ErrorCode_INGEST_PROCESSING_FAILED:        "PROCESSING_FAILED",
	ErrorCode_INGEST_UPLOAD_FAILED:            "UPLOAD_FAILED",
	ErrorCode_SUGGESTION_ALREADY_REVIEWED:     "ALREADY_REVIEWED",
	ErrorCode_SUGGESTION_INVALID:              "SUGGESTION_INVALID",
	ErrorCode_MERGE_INVALID:                   "MERGE_INVALID",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "EXTERNAL_API_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
	ErrorCode_DB_TRANSACTION_FAILED:           "DB_TRANSACTION_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
