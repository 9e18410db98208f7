package services

import (
	"corpmatch_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	ProfileService      ProfileService
	MatchService        MatchService
	MeetingService      MeetingService
	CabService          CabService
	PremiumService      PremiumService
	MessageService      MessageService
	NotificationService NotificationService
	PhoneService        PhoneService
	RestaurantService   RestaurantService
	WebhookService      WebhookService
	EmailService        email.Provider
}
