package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	Send(to, subject, body string) error
}
