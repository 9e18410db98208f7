package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для общих ошибок бизнес-логики и домена.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов (статусная машина)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// --- Auth ---

// ErrInvalidCredentials - неверный email или пароль.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (access, refresh).
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже используется.
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// --- Matching ---

// ErrCannotLikeSelf - лайк самому себе запрещен.
var ErrCannotLikeSelf = New(
	CodeInvalidOperation,
	"matching",
	"You cannot like your own profile",
	http.StatusBadRequest,
)

// ErrLikeAlreadyRecorded - повторный лайк той же анкеты.
var ErrLikeAlreadyRecorded = New(
	CodeConflict,
	"matching",
	"Like already recorded for this user",
	http.StatusConflict,
)

// ErrUsersNotMatched - пара не является взаимным матчем.
var ErrUsersNotMatched = New(
	CodeForbidden,
	"matching",
	"Users are not matched",
	http.StatusForbidden,
)

// --- Meetings ---

// ErrMeetingExists - между парой уже есть активная встреча.
var ErrMeetingExists = New(
	CodeConflict,
	"meeting",
	"You already have a pending or confirmed meeting with this user",
	http.StatusConflict,
)

// ErrInvalidPaymentTier - неизвестный тариф встречи.
var ErrInvalidPaymentTier = New(
	CodeValidationFailed,
	"meeting",
	"Invalid payment tier",
	http.StatusBadRequest,
)

// ErrNotMeetingParticipant - пользователь не участник встречи.
var ErrNotMeetingParticipant = New(
	CodeForbidden,
	"meeting",
	"You are not a participant of this meeting",
	http.StatusForbidden,
)

// --- Payments ---

// ErrPaymentAlreadyCompleted - обязательство уже оплачено.
var ErrPaymentAlreadyCompleted = New(
	CodeConflict,
	"payment",
	"Payment already completed",
	http.StatusConflict,
)

// ErrInvalidPaymentSignature - подпись шлюза не сошлась.
// Для платежей нет "мягкого" режима: всегда отказ.
var ErrInvalidPaymentSignature = New(
	CodeInvalidSignature,
	"payment",
	"Invalid payment signature",
	http.StatusBadRequest,
)

// ErrPaymentNotCaptured - шлюз не подтвердил списание средств.
var ErrPaymentNotCaptured = New(
	CodeConflict,
	"payment",
	"Payment not captured by the gateway",
	http.StatusConflict,
)

// ErrGatewayError - общая ошибка интеграции с платежным шлюзом.
var ErrGatewayError = New(
	CodeExternalServiceError,
	"payment",
	"Payment provider error",
	http.StatusServiceUnavailable,
)

// --- Premium ---

// ErrAccessAlreadyPurchased - контакт уже куплен (нет двойного списания).
var ErrAccessAlreadyPurchased = New(
	CodeConflict,
	"premium",
	"You already have access to this information",
	http.StatusConflict,
)

// ErrPurchasePending - есть незавершенная покупка этого же контакта.
var ErrPurchasePending = New(
	CodeConflict,
	"premium",
	"You have a pending payment for this purchase. Please complete or cancel it first",
	http.StatusConflict,
)

// --- Cabs / Rides ---

// ErrPassengerNotInMeeting - пассажир не участник встречи.
var ErrPassengerNotInMeeting = New(
	CodeInvalidOperation,
	"cab",
	"Passenger is not part of this meeting",
	http.StatusBadRequest,
)

// ErrBookingConsentRequired - бронь для партнера без явного согласия.
var ErrBookingConsentRequired = New(
	CodeInvalidOperation,
	"cab",
	"Cannot book cab for another user without explicit consent",
	http.StatusBadRequest,
)

// ErrEstimateFailed - провайдер оценки поездки недоступен.
var ErrEstimateFailed = New(
	CodeExternalServiceError,
	"rides",
	"Failed to get ride estimate",
	http.StatusServiceUnavailable,
)

// --- Phone verification ---

// ErrInvalidPhoneNumber - номер не прошел валидацию формата.
var ErrInvalidPhoneNumber = New(
	CodeValidationFailed,
	"phone",
	"Invalid phone number format",
	http.StatusBadRequest,
)

// ErrPhoneAlreadyRegistered - номер привязан к другому аккаунту.
var ErrPhoneAlreadyRegistered = New(
	CodeConflict,
	"phone",
	"Phone number is already registered to another account",
	http.StatusConflict,
)

// ErrOTPInvalid - код не совпал или просрочен.
var ErrOTPInvalid = New(
	CodeInvalidOperation,
	"phone",
	"Invalid or expired verification code",
	http.StatusBadRequest,
)
