package constant

// Domain service error codes
const (
	// QR-code service - validation errors
	ErrCodeValidationFailed = "SVC001"

	// QR-code service - storage errors
	ErrCodeStorageFailure = "SVC002"

	// QR-code service - retrieval errors
	ErrCodeQRCodeNotFound = "SVC003"

	// QR-code service - scan errors
	ErrCodeIncrementScans = "SVC004"
	ErrCodeBadDestination = "SVC005"

	// QR-code service - enrichment errors
	ErrCodeEnrichFailure = "SVC006"
)

// Database error codes
const (
	// General DB errors
	ErrCodeDBGeneral = "DB500"

	// Connection errors
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Write operation errors
	ErrCodeDBInsert = "DB101"
	ErrCodeDBUpdate = "DB102"
	ErrCodeDBDelete = "DB103"

	// Lookup operation errors
	ErrCodeDBLookup = "DB201"

	// IncrementScans operation errors
	ErrCodeDBIncrement = "DB301"

	// Close operation errors
	ErrCodeDBClose = "DB401"
)

// Collaborator error codes
const (
	ErrCodeCatalogRequest = "CAT001"
	ErrCodeCatalogDecode  = "CAT002"
	ErrCodeImageEncode    = "IMG001"
)

// API error codes
const (
	ErrCodeAPIDecodeRequest  = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIUnauthorized   = "API003"
	ErrCodeAPIBadWebhook     = "API004"
	ErrCodeAppDBInit         = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeRetrieval  = "retrieval"
	ErrTypeEnrichment = "enrichment"
	ErrTypeStats      = "stats"

	// Infrastructure error types
	ErrTypeDB      = "db"
	ErrTypeCatalog = "catalog"
	ErrTypeImage   = "image"

	// Surface error types
	ErrTypeAPI = "api"
	ErrTypeApp = "application"
)
