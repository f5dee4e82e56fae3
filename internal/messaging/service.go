package messaging

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// SendTimeout bounds a single delivery attempt
const SendTimeout = 60 * time.Second

// Send outcomes reported to the Recorder
const (
	OutcomeSent     = "sent"
	OutcomeInvalid  = "invalid"
	OutcomeNotReady = "not_ready"
	OutcomeFailed   = "failed"
)

// Readiness reports whether the session can send right now
type Readiness interface {
	IsReady() bool
}

// StateReader is implemented by readiness sources that can name their state.
type StateReader interface {
	StateName() string
}

// Sender delivers a text to a chat identifier
type Sender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Recorder receives the outcome of every send attempt
type Recorder interface {
	RecordSend(outcome string)
}

// Service validates send requests, gates them on session readiness and
// delegates delivery to the session.
type Service struct {
	ready    Readiness
	sender   Sender
	policy   PhonePolicy
	validate *validator.Validate
	recorder Recorder
	logger   zerolog.Logger
}

// NewService creates a new messaging service. recorder may be nil.
func NewService(ready Readiness, sender Sender, policy PhonePolicy, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		ready:    ready,
		sender:   sender,
		policy:   policy,
		validate: newValidator(),
		recorder: recorder,
		logger:   logger.With().Str("component", "messaging").Logger(),
	}
}

// Send delivers text to phone at most once. It returns *ValidationError,
// *NotReadyError or *DeliveryError on failure.
func (s *Service) Send(ctx context.Context, phone, text string) (*SendResult, error) {
	req := SendRequest{Telefono: PhoneNumber(phone), Mensaje: text}
	if err := s.validateRequest(req); err != nil {
		s.record(OutcomeInvalid)
		return nil, err
	}

	if !s.ready.IsReady() {
		state := "unknown"
		if sr, ok := s.ready.(StateReader); ok {
			state = sr.StateName()
		}
		s.record(OutcomeNotReady)
		return nil, &NotReadyError{State: state}
	}

	digits := s.policy.Normalize(phone)
	chatID := ChatID(digits)

	s.logger.Info().Str("chat_id", chatID).Msg("Sending message")

	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()

	if err := s.sender.SendMessage(ctx, chatID, text); err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("Error sending message")
		s.record(OutcomeFailed)
		return nil, &DeliveryError{Destination: digits, Err: err}
	}

	s.logger.Info().Str("to", digits).Msg("Message sent")
	s.record(OutcomeSent)
	return &SendResult{Success: true, EnviadoA: digits}, nil
}

func (s *Service) validateRequest(req SendRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		if stripNonDigits(string(req.Telefono)) == "" {
			return &ValidationError{Fields: []string{"telefono"}}
		}
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate send request: %w", err)
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Fields: fields}
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordSend(outcome)
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

// jsonFieldName makes validation errors report JSON field names
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
