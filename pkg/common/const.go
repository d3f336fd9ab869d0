package common

const (
	KEY_STOCK_PRICE_ALERT = "stock_price_alert:%s:%s"
	KEY_LAST_PRICE        = "last_price:%s"
)
