package clients

import "time"

const (
	USER_AGENT           = "reviewpulse-client/1.0"
	PROD_SEND_TIMEOUT    = 10 * time.Second
	DEV_SEND_TIMEOUT     = 60 * time.Second
	DEFAULT_LOG_ENDPOINT = "http://localhost:8091/log"
)
