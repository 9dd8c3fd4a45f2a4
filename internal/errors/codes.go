package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // sign-in required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong username/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // session token expired
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // malformed session token
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // duplicate email

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"  // bad input
	ValidationInvalidID     = "VALIDATION_INVALID_ID"     // bad id
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT" // bad format
	ValidationTooShort      = "VALIDATION_TOO_SHORT"      // value too short
	ValidationRequired      = "VALIDATION_REQUIRED"       // missing required field

	// ==================== Session (SESSION_) ====================
	SessionNotFound = "SESSION_NOT_FOUND" // unknown shopper session

	// ==================== Cart (CART_) ====================
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"  // no line for the given key
	CartEmpty         = "CART_EMPTY"           // cart has no lines
	CartStorageFailed = "CART_STORAGE_FAILED"  // snapshot write failed

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNotActive       = "CHECKOUT_NOT_ACTIVE"        // no checkout in progress
	CheckoutInvalidStep     = "CHECKOUT_INVALID_STEP"      // operation not valid in current step
	CheckoutInvalidPath     = "CHECKOUT_INVALID_PATH"      // unknown checkout path
	CheckoutAlreadyActive   = "CHECKOUT_ALREADY_ACTIVE"    // checkout already in progress
	CheckoutSubmitInFlight  = "CHECKOUT_SUBMIT_IN_FLIGHT"  // submission already running

	// ==================== Order (ORDER_) ====================
	OrderRejected     = "ORDER_REJECTED"      // upstream rejected the order
	OrderSubmitFailed = "ORDER_SUBMIT_FAILED" // could not reach the store

	// ==================== Catalog (CATALOG_) ====================
	CatalogUnavailable = "CATALOG_UNAVAILABLE" // catalog fetch failed, no cache

	// ==================== Tracking (TRACKING_) ====================
	TrackingNotFound = "TRACKING_NOT_FOUND" // unknown tracking number

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound = "RESOURCE_NOT_FOUND" // generic not found

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // server error
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // db error
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // upstream store API error
)
