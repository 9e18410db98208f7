package ws

import (
	"sync"

	"corpmatch_backend/internal/logger"
)

// Event - конверт исходящего realtime-события
type Event struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// WebSocketManager держит подключенных клиентов и раздает им события.
// Реализует services.Publisher.
type WebSocketManager struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			// Повторное подключение вытесняет старое соединение
			if old, ok := manager.clients[client.ID]; ok {
				close(old.Send)
			}
			manager.clients[client.ID] = client
			manager.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.ID)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if current, ok := manager.clients[client.ID]; ok && current == client {
				close(client.Send)
				delete(manager.clients, client.ID)
				logger.Debug("ws client unregistered", "user_id", client.ID)
			}
			manager.mu.Unlock()
		}
	}
}

// Publish отправляет событие конкретному пользователю.
// Отключенный пользователь молча пропускается - уведомление
// остается в его ленте в БД.
func (manager *WebSocketManager) Publish(userID string, event string, payload interface{}) {
	manager.mu.RLock()
	client, ok := manager.clients[userID]
	manager.mu.RUnlock()
	if !ok {
		return
	}

	select {
	case client.Send <- Event{Event: event, Payload: payload}:
	default:
		// Канал заполнен, клиент отключается
		go func() {
			manager.unregister <- client
		}()
		logger.Warn("ws client dropped, send buffer full", "user_id", userID)
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// IsClientConnected проверяет, подключен ли пользователь
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	_, exists := manager.clients[userID]
	return exists
}
