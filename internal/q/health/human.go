package health

// HumanErr is a HealthErr with a separate message for end users. The CLI prints HumanMessage; logs get the HealthErr form.
type HumanErr struct {
	HumanMessage string
	HealthErr
}

// NewHumanErr returns a HumanErr with a user-facing humanMsg and a log-facing msg and args.
func NewHumanErr(humanMsg string, msg string, args ...any) error {
	return &HumanErr{HumanMessage: humanMsg, HealthErr: HealthErr{Message: msg, attrs: args}}
}

// WrapHuman is NewHumanErr for an underlying cause.
func WrapHuman(humanMsg string, msg string, wrapped error, args ...any) error {
	return &HumanErr{HumanMessage: humanMsg, HealthErr: HealthErr{Message: msg, wrapped: wrapped, attrs: args}}
}

// Error returns the human message, falling back to the HealthErr form when it is empty.
func (e *HumanErr) Error() string {
	if e.HumanMessage == "" {
		return e.HealthErr.Error()
	}
	return e.HumanMessage
}

func (e *HumanErr) Unwrap() error {
	return e.wrapped
}
