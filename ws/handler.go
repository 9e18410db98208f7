package ws

import (
	"net/http"

	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/middleware"
	"corpmatch_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшн добавьте проверку origin
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager        *WebSocketManager
	MessageService services.MessageService
}

func NewWebSocketHandler(manager *WebSocketManager, messageService services.MessageService) *WebSocketHandler {
	return &WebSocketHandler{
		Manager:        manager,
		MessageService: messageService,
	}
}

// ServeWS апгрейдит соединение для аутентифицированного пользователя.
// Маршрут должен стоять за AuthMiddleware.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("websocket upgrade error")
		return
	}

	client := &Client{
		ID:             userID,
		Conn:           conn,
		Send:           make(chan Event, 256),
		Manager:        h.Manager,
		MessageService: h.MessageService,
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
