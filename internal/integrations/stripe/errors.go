package stripe

import "errors"

var (
	// ErrNotConfigured возвращается, когда секретный ключ Stripe не задан
	ErrNotConfigured = errors.New("stripe: payment provider is not configured")

	// ErrProvider возвращается при ошибке вызова Stripe API
	ErrProvider = errors.New("stripe: provider request failed")

	// ErrSessionNotFound возвращается, когда checkout-сессия не найдена
	ErrSessionNotFound = errors.New("stripe: checkout session not found")

	// ErrInvalidSignature возвращается при неверной подписи вебхука
	ErrInvalidSignature = errors.New("stripe: invalid webhook signature")

	// ErrInvalidPayload возвращается, когда тело события нельзя разобрать
	ErrInvalidPayload = errors.New("stripe: invalid webhook payload")
)
