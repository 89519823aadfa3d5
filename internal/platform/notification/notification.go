// Package notification sends patient-facing email notifications for
// appointment lifecycle changes, with template rendering and a pluggable
// sender.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// EmailSender is the interface for sending email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Template defines a reusable notification template.
type Template struct {
	ID      string
	Subject string
	Body    string
}

// TemplateEngine manages templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// Built-in template identifiers.
const (
	TemplateAppointmentRequested = "appointment-requested"
	TemplateAppointmentConfirmed = "appointment-confirmed"
	TemplateAppointmentCancelled = "appointment-cancelled"
	TemplateAppointmentCompleted = "appointment-completed"
)

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      TemplateAppointmentRequested,
			Subject: "Appointment request received",
			Body:    "Dear {{patient_name}}, your appointment request with {{doctor_name}} at {{hospital_name}} on {{date}} at {{time}} has been received and is awaiting confirmation.",
		},
		{
			ID:      TemplateAppointmentConfirmed,
			Subject: "Appointment confirmed",
			Body:    "Dear {{patient_name}}, your appointment with {{doctor_name}} at {{hospital_name}} on {{date}} at {{time}} has been confirmed.",
		},
		{
			ID:      TemplateAppointmentCancelled,
			Subject: "Appointment cancelled",
			Body:    "Dear {{patient_name}}, your appointment with {{doctor_name}} at {{hospital_name}} on {{date}} at {{time}} has been cancelled.",
		},
		{
			ID:      TemplateAppointmentCompleted,
			Subject: "How was your visit?",
			Body:    "Dear {{patient_name}}, your appointment with {{doctor_name}} at {{hospital_name}} is complete. You can now rate your visit.",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template in the engine.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render looks up a template by ID and performs {{key}} replacement using the
// supplied data map. Keys present in the template but absent from data are
// left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

// Service renders templates and dispatches them through the sender. Send
// failures are logged, never returned: a failed notification must not fail
// the triggering user action.
type Service struct {
	engine *TemplateEngine
	sender EmailSender
	logger zerolog.Logger
}

func NewService(sender EmailSender, logger zerolog.Logger) *Service {
	return &Service{
		engine: NewTemplateEngine(),
		sender: sender,
		logger: logger,
	}
}

// Send renders the template and emails it to the recipient.
func (s *Service) Send(ctx context.Context, to, templateID string, data map[string]string) {
	if to == "" {
		return
	}
	subject, body, err := s.engine.Render(templateID, data)
	if err != nil {
		s.logger.Error().Err(err).Str("template", templateID).Msg("notification: render failed")
		return
	}
	if err := s.sender.SendEmail(ctx, to, subject, body); err != nil {
		s.logger.Error().Err(err).Str("recipient", to).Msg("notification: send failed")
	}
}

// LogSender writes notifications to the log instead of delivering them.
// It stands in for a real provider in development.
type LogSender struct {
	Logger zerolog.Logger
}

func (l *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	l.Logger.Info().
		Str("to", to).
		Str("subject", subject).
		Str("body", body).
		Msg("email")
	return nil
}

// EmailCall records a single call to SendEmail.
type EmailCall struct {
	To      string
	Subject string
	Body    string
}

// MockEmailSender is a test double for EmailSender.
type MockEmailSender struct {
	mu         sync.Mutex
	calls      []EmailCall
	ShouldFail bool
	FailError  string
}

// SendEmail records the call and optionally returns an error.
func (m *MockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, EmailCall{To: to, Subject: subject, Body: body})
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of recorded email calls.
func (m *MockEmailSender) Calls() []EmailCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailCall, len(m.calls))
	copy(out, m.calls)
	return out
}
