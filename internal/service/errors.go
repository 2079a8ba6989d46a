package service

import "fmt"

// здесь ошибки бизнес-логики, которые уходят пользователю

type BusinessError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

type Detail struct {
	Key     string
	Payload any
}

func (b *BusinessError) Error() string {
	if b.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", b.Code, b.Message, b.Err.Error())
	}
	return fmt.Sprintf("[%s] %s", b.Code, b.Message)
}

func ToDetail(key string, payload any) Detail {
	return Detail{
		Key:     key,
		Payload: payload,
	}
}

func NewBusinessError(code string, message string, details ...Detail) *BusinessError {
	BusErr := &BusinessError{
		Code:    code,
		Message: message,
		Details: make(map[string]any),
	}

	for _, detail := range details {
		BusErr.Details[detail.Key] = detail.Payload
	}

	return BusErr
}

func NewNotFound(id string) *BusinessError {
	return &BusinessError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("задача %s не найдена", id),
		Details: map[string]any{
			"id": id,
		},
	}
}

func NewValidationError(field, reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf("Неверное значение поля '%s': %s", field, reason),
		Details: map[string]any{
			"field":  field,
			"reason": reason,
		},
	}
}

// NewValidationRejected - ручная смена статуса нарушает правила переходов
func NewValidationRejected(reason string) *BusinessError {
	return &BusinessError{
		Code:    "VALIDATION_REJECTED",
		Message: reason,
		Details: map[string]any{
			"reason": reason,
		},
	}
}

// NewConfirmationRequired - переход допустим, но нужно подтверждение
// пользователя; вызывающий повторяет запрос с confirmed=true
func NewConfirmationRequired(reason string) *BusinessError {
	return &BusinessError{
		Code:    "CONFIRMATION_REQUIRED",
		Message: reason,
		Details: map[string]any{
			"reason": reason,
		},
	}
}

// NewRemoteFailure - удалённое хранилище не сохранило изменение,
// локальное состояние откачено
func NewRemoteFailure(err error) *BusinessError {
	return &BusinessError{
		Code:    "REMOTE_FAILURE",
		Message: "не удалось сохранить изменение, попробуйте ещё раз",
		Details: map[string]any{},
		Err:     err,
	}
}

func NewVersionConflict(id string) *BusinessError {
	return &BusinessError{
		Code:    "VERSION_CONFLICT",
		Message: fmt.Sprintf("задача %s была изменена параллельно", id),
		Details: map[string]any{
			"id": id,
		},
	}
}
