package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	ProfileHandler      *ProfileHandler
	MatchHandler        *MatchHandler
	MeetingHandler      *MeetingHandler
	CabHandler          *CabHandler
	PremiumHandler      *PremiumHandler
	MessageHandler      *MessageHandler
	NotificationHandler *NotificationHandler
	PhoneHandler        *PhoneHandler
	RestaurantHandler   *RestaurantHandler
	WebhookHandler      *WebhookHandler
	HealthHandler       *HealthHandler
}
