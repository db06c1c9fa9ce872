package constants

// External service error codes
const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeNoMatch           = "NO_MATCH"
	ErrCodeResourceNotFound  = "RESOURCE_NOT_FOUND"
)

// Request error codes
const (
	ErrCodeWorkbookLoadFailed = "WORKBOOK_LOAD_FAILED"
	ErrCodeNoDataset          = "NO_DATASET"
	ErrCodeUnknownPage        = "UNKNOWN_PAGE"
	ErrCodeInvalidQuery       = "INVALID_QUERY"
	ErrCodeUploadTooLarge     = "UPLOAD_TOO_LARGE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Error Messages
// Human-readable messages corresponding to error codes

var ErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:     "The routing API key is invalid or has been revoked",
	ErrCodeRateLimited:       "Rate limit exceeded. Please try again later",
	ErrCodeNetworkError:      "Unable to reach the external service",
	ErrCodeTimeout:           "The external service did not answer in time",
	ErrCodeInvalidDataFormat: "The data format is invalid",
	ErrCodeNoMatch:           "No result matched the query",
	ErrCodeResourceNotFound:  "The requested resource was not found",

	ErrCodeWorkbookLoadFailed: "The workbook could not be loaded",
	ErrCodeNoDataset:          "No workbook loaded. Upload a file on the home page first",
	ErrCodeUnknownPage:        "The requested page does not exist",
	ErrCodeInvalidQuery:       "One or more query parameters are invalid",
	ErrCodeUploadTooLarge:     "The uploaded file is too large",
	ErrCodeInternal:           "Something went wrong on our side",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
