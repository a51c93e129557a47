package stripe_webhook

// AckResponse ответ провайдеру на принятое событие
type AckResponse struct {
	Received bool   `json:"received"`
	Result   string `json:"result,omitempty"`
}

// Результаты обработки события
const (
	resultProcessed = "processed"
	resultIgnored   = "ignored"
	resultFinal     = "final" // бронь уже в конечном состоянии, повтор не нужен
)
