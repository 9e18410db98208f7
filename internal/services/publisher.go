package services

// Publisher доставляет событие подключенному пользователю (websocket).
// Сервисы не знают про транспорт доставки.
type Publisher interface {
	Publish(userID string, event string, payload interface{})
}

// NoopPublisher для тестов и конфигураций без realtime
type NoopPublisher struct{}

func (NoopPublisher) Publish(userID string, event string, payload interface{}) {}
