package log

const (
	KeyAppName            = "app"
	KeyRequestID          = "requestId"
	KeyTraceID            = "traceId"
	KeySpanID             = "spanId"
	KeyProcess            = "process"
	KeyToken              = "token"
	KeyEmail              = "email"
	KeyTag                = "tag"
	KeyRequest            = "request"
	KeyRequestBody        = "requestBody"
	KeyRequestHeader      = "requestHeader"
	KeyRequestHost        = "host"
	KeyRequestIp          = "requesterIP"
	KeyRequestMethod      = "requestMethod"
	KeyRequestURI         = "requestURI"
	KeyRequestURL         = "requestURL"
	KeyRequestDuration    = "requestDuration"
	KeyResponseStatusCode = "responseStatusCode"
	KeyConfig             = "config"
	KeyDbURL              = "dbURL"
	KeyBrokerURL          = "brokerURL"
	KeyCacheKey           = "cacheKey"
	KeyPathValues         = "pathValues"

	KeyUserID        = "userId"
	KeyProductID     = "productId"
	KeyQuantity      = "quantity"
	KeyCart          = "cart"
	KeyCartItem      = "cartItem"
	KeyCartItems     = "cartItems"
	KeyCartVersion   = "cartVersion"
	KeyCoupon        = "coupon"
	KeyTotals        = "totals"
	KeyOrder         = "order"
	KeyOrderID       = "orderId"
	KeyOrders        = "orders"
	KeyOrderItems    = "orderItems"
	KeyAddressID     = "addressId"
	KeyAddress       = "address"
	KeyWishlistItem  = "wishlistItem"
	KeyHelpRequestID = "helpRequestId"
	KeyNotification  = "notification"
	KeyQueue         = "queue"
	KeyBatchSize     = "batchSize"
)
