// Package submit implements the submission path of the interest form: the
// current FormState is written to a developer-facing diagnostic logger and a
// user-facing acknowledgment is returned. Nothing is persisted and the
// submitted record is left as is.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/goliatone/go-spidrform/pkg/model"
)

// DefaultAcknowledgment is shown to the user after every submission.
const DefaultAcknowledgment = "Form submitted! Check the console."

// DiagnosticPrefix precedes the serialized state in the diagnostic log.
const DiagnosticPrefix = "Form submitted: "

// Encoder serializes a FormState for the diagnostic log.
type Encoder func(model.FormState) ([]byte, error)

// Receipt is what the caller shows the user once a submission went through.
type Receipt struct {
	Message  string          `json:"message"`
	Sequence uint64          `json:"sequence"`
	State    model.FormState `json:"-"`
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithAcknowledgment overrides the acknowledgment message.
func WithAcknowledgment(message string) Option {
	return func(h *Handler) {
		if message != "" {
			h.ack = message
		}
	}
}

// WithEncoder overrides the diagnostic serialization.
func WithEncoder(enc Encoder) Option {
	return func(h *Handler) {
		if enc != nil {
			h.encode = enc
		}
	}
}

// Handler is safe for concurrent use.
type Handler struct {
	logger *log.Logger
	ack    string
	encode Encoder
	count  atomic.Uint64
}

// New constructs a Handler logging to stderr with the default acknowledgment.
func New(options ...Option) *Handler {
	h := &Handler{
		logger: log.New(os.Stderr, "", log.LstdFlags),
		ack:    DefaultAcknowledgment,
		encode: encodeJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h
}

// OnSubmit emits state to the diagnostic logger and returns the
// acknowledgment. Each call emits exactly one diagnostic line.
func (h *Handler) OnSubmit(ctx context.Context, state model.FormState) (Receipt, error) {
	if h == nil {
		return Receipt{}, errors.New("submit: handler is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return Receipt{}, err
		}
	}

	payload, err := h.encode(state)
	if err != nil {
		return Receipt{}, fmt.Errorf("submit: encode state: %w", err)
	}
	if err := h.logger.Output(2, DiagnosticPrefix+string(payload)); err != nil {
		return Receipt{}, fmt.Errorf("submit: write diagnostic: %w", err)
	}

	return Receipt{
		Message:  h.ack,
		Sequence: h.count.Add(1),
		State:    state,
	}, nil
}

// Acknowledgment returns the configured message.
func (h *Handler) Acknowledgment() string {
	return h.ack
}

// Count reports how many submissions went through.
func (h *Handler) Count() uint64 {
	return h.count.Load()
}

func encodeJSON(state model.FormState) ([]byte, error) {
	return json.Marshal(state)
}
