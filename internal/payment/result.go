package payment

import "fmt"

// FailureKind классифицирует неудачный вызов провайдера.
type FailureKind int

const (
	// NetworkError ошибка транспорта или таймаут.
	NetworkError FailureKind = iota + 1
	// HTTPError ответ с кодом, отличным от 200.
	HTTPError
	// EmptyOrSentinelPayload ответ 200 с пустым телом или "null"/"none"/"nan".
	EmptyOrSentinelPayload
	// InvalidRequest запрос не прошёл проверку до отправки.
	InvalidRequest
)

func (k FailureKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case HTTPError:
		return "http_error"
	case EmptyOrSentinelPayload:
		return "empty_payload"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Failure describes why no payment code was obtained.
type Failure struct {
	Kind   FailureKind
	Status int
	Body   string
	Err    error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case HTTPError:
		return fmt.Sprintf("payment provider returned HTTP %d: %s", f.Status, truncate(f.Body, 200))
	case EmptyOrSentinelPayload:
		return fmt.Sprintf("payment provider returned empty payload %q", truncate(f.Body, 40))
	default:
		return fmt.Sprintf("payment request %s: %v", f.Kind, f.Err)
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Result либо строка платёжного кода, либо Failure.
type Result struct {
	Payload string
	Failure *Failure
}

// OK сообщает, получен ли платёжный код.
func (r Result) OK() bool {
	return r.Failure == nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
