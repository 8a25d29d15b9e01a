package domain

type Subscriber struct {
	FID             int64
	Token           string
	NotificationURL string
}
