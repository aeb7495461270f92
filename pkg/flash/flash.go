// Package flash builds the status envelopes the API returns after form
// submissions: a human-readable message, a severity tag and the path the
// client should navigate to next.
package flash

// Severity tags understood by the front end.
const (
	TypeSuccess = "success"
	TypeDanger  = "danger"
	TypeInfo    = "info"
)

// Envelope is the response body for mutating operations.
type Envelope struct {
	Message string      `json:"message"`
	Type    string      `json:"type"`
	Next    string      `json:"next,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(message, next string) *Envelope {
	return &Envelope{Message: message, Type: TypeSuccess, Next: next}
}

func Danger(message string) *Envelope {
	return &Envelope{Message: message, Type: TypeDanger}
}

func Info(message, next string) *Envelope {
	return &Envelope{Message: message, Type: TypeInfo, Next: next}
}

// WithData attaches the affected record to the envelope.
func (e *Envelope) WithData(data interface{}) *Envelope {
	e.Data = data
	return e
}
