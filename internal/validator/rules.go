package validator

import (
	"log"
	"regexp"
	"strings"

	"corpmatch_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// E.164 с необязательным '+' после нормализации
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// normalizePhone убирает пробелы, дефисы и скобки перед проверкой
func normalizePhone(raw string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	return replacer.Replace(raw)
}

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {

	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться, так как это критическая ошибка.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'phone': международный номер телефона
	mustRegister("phone", validatePhone)

	// 'is-gender': Проверяет пол
	mustRegister("is-gender", validateGender)

	// 'is-looking-for': Проверяет предпочтение поиска
	mustRegister("is-looking-for", validateLookingFor)

	// 'is-meeting-status': Проверяет статус встречи
	mustRegister("is-meeting-status", validateMeetingStatus)

	// 'is-access-type': Проверяет тип premium доступа
	mustRegister("is-access-type", validateAccessType)
}

// --- Функции валидации ---

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	return phoneRegex.MatchString(normalizePhone(value))
}

func validateGender(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch strings.ToLower(value) {
	case "male", "female", "other":
		return true
	default:
		return false
	}
}

func validateLookingFor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch strings.ToLower(value) {
	case "male", "female", "everyone":
		return true
	default:
		return false
	}
}

func validateMeetingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MeetingStatus(value) {
	case models.MeetingStatusPending, models.MeetingStatusConfirmed,
		models.MeetingStatusCompleted, models.MeetingStatusCancelled:
		return true
	default:
		return false
	}
}

func validateAccessType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AccessType(value) {
	case models.AccessTypePhone, models.AccessTypeLinkedin:
		return true
	default:
		return false
	}
}
