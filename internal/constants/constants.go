package constants

const (
	AppGrocery      = "grocery"
	AppApi          = "grocery-api"
	AppNotification = "grocery-notification"
	AudienceUser    = "grocery-user"
)

const (
	QueueOrderPlaced = "order.placed"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
