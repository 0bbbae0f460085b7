package constant

// Request context keys
const (
	RequestIDKey = "request_id"
	ShopKey      = "shop"
)

// HTTP header names
const (
	HeaderRequestID    = "X-Request-ID"
	HeaderAccessToken  = "X-Shopify-Access-Token"
	HeaderWebhookTopic = "X-Shopify-Topic"
	HeaderWebhookShop  = "X-Shopify-Shop-Domain"
	HeaderWebhookHMAC  = "X-Shopify-Hmac-Sha256"
)

// Webhook topics
const (
	TopicOrdersCreate   = "orders/create"
	TopicAppUninstalled = "app/uninstalled"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain      = "domain"
	CtxGetByID     = "GetByID"
	CtxListForShop = "ListForShop"
	CtxCreate      = "Create"
	CtxUpdate      = "Update"
	CtxDelete      = "Delete"
	CtxScan        = "Scan"
	CtxDisplay     = "Display"
	CtxEnrich      = "enrich"

	// Infrastructure context names
	CtxDB             = "db"
	CtxFindByID       = "FindByID"
	CtxFindByShop     = "FindByShop"
	CtxIncrementScans = "IncrementScans"
	CtxSessions       = "sessions"
	CtxClose          = "Close"
	CtxCatalog        = "catalog"
	CtxAPI            = "api"

	// General context names
	CtxRouter   = "Router"
	CtxMain     = "Main"
	CtxWebhooks = "Webhooks"
)

// Data field keys
const (
	// Service data fields
	DataService     = "service"
	DataQRCodeID    = "qr_code_id"
	DataShop        = "shop"
	DataTitle       = "title"
	DataProductID   = "product_id"
	DataDestination = "destination"
	DataTarget      = "destination_url"
	DataFields      = "fields"
	DataCount       = "count"
	DataTopic       = "topic"
	DataPayload     = "payload"

	// Database data fields
	DataElapsed      = "elapsed"
	DataRows         = "rows"
	DataSQL          = "sql"
	DataData         = "data"
	DataRowsAffected = "rows_affected"

	// API data fields
	DataMethod      = "method"
	DataPathURL     = "path"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataSize        = "size"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataPort        = "port"
	DataDBPath      = "db_path"
	DataEnvironment = "environment"
	DataEndpoint    = "endpoint"
)

// Error message constants
const (
	ErrQRCodeNotFound     = "qr code not found"
	ErrSessionNotFound    = "session not found"
	ErrMalformedVariantID = "malformed product variant id"
	ErrCatalogStatus      = "catalog request failed"
)

// Validation messages surfaced to the admin form
const (
	MsgTitleRequired       = "Title is required"
	MsgProductRequired     = "Product is required"
	MsgDestinationRequired = "Destination is required"
)

// API routes
const (
	RouteAdminQRCodes    = "/api/qrcodes"
	RouteAdminQRCodeByID = "/api/qrcodes/{id}"
	RouteDisplay         = "/qrcodes/{id}"
	RouteScan            = "/qrcodes/{id}/scan"
	RouteWebhooks        = "/webhooks"
	RouteHealthcheck     = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Message constants for application
const (
	MsgApplicationStarting   = "Application starting"
	MsgFailedToInitDB        = "Failed to initialize database"
	MsgServerStarting        = "Server starting"
	MsgServerFailedToStart   = "Server failed to start"
	MsgServerShuttingDown    = "Server shutting down"
	MsgServerShutdownError   = "Error during server shutdown"
	MsgServerStopped         = "Server stopped"
	MsgRequestReceived       = "Request received"
	MsgRequestCompleted      = "Request completed"
	MsgSettingUpRoutes       = "Setting up API routes"
	MsgHealthcheckRequest    = "Handling healthcheck request"
	MsgHealthy               = "Healthy"
	MsgWebhookReceived       = "Webhook received"
	MsgUnhandledWebhookTopic = "Unhandled webhook topic"
)

// Cache namespaces
const (
	QRImageNamespace = "QRIMG"
)
