package common

const (
	// AuthorizationHeader carries the bearer token on negotiation requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token value in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// FileFieldName is the multipart field holding the file content.
	FileFieldName = "file"

	// UploadTokenFieldName is the multipart field holding a local upload token.
	UploadTokenFieldName = "token"

	// DefaultBatchSize bounds how many files are uploaded concurrently.
	DefaultBatchSize = 500
)
