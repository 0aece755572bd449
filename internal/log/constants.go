package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyProcess            = "process"
	KeyTag                = "tag"
	KeyConfig             = "config"
	KeyToken              = "token"
	KeySessionID          = "sessionId"
	KeyUsername           = "username"
	KeyCustomerID         = "customerId"
	KeyOrderID            = "orderId"
	KeyProductID          = "productId"
	KeySize               = "size"
	KeyQuantity           = "quantity"
	KeyCartItems          = "cartItems"
	KeyCartCount          = "cartCount"
	KeyCartTotal          = "cartTotal"
	KeyCacheKey           = "cacheKey"
	KeyTable              = "table"
	KeyField              = "field"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestProcessedAt = "requestProcessedAt"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
)
