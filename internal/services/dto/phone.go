package dto

// SendOTPRequest - запрос кода верификации телефона
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

// VerifyOTPRequest - подтверждение кода
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Code  string `json:"code" binding:"required,len=6"`
}

// NotificationResponse - представление уведомления
type NotificationResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}
