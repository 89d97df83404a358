package notify

import (
	"context"
	"fmt"

	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

// Service composes patient-facing notifications and hands them to the
// configured sender.
type Service struct {
	sender EmailSender
	logger *logging.Logger
}

// NewService creates a notification service. A nil sender falls back to
// the simulated log sender.
func NewService(sender EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if sender == nil {
		sender = NewLogSender(logger)
	}
	return &Service{sender: sender, logger: logger}
}

// SendIntakeForm sends the new-patient intake form link ahead of a first
// appointment.
func (s *Service) SendIntakeForm(ctx context.Context, email, name, doctor, slot string) error {
	if email == "" {
		return fmt.Errorf("notify: recipient email is required")
	}
	msg := EmailMessage{
		To:      email,
		ToName:  name,
		Subject: "Your New Patient Intake Form",
		Body: fmt.Sprintf(
			"Hello %s,\n\nThank you for booking with %s on %s. "+
				"Please complete your intake form before your visit so we can check you in quickly.\n\n"+
				"MediCare Scheduling",
			name, doctor, slot,
		),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("intake form sent", "to", email, "doctor", doctor, "slot", slot)
	return nil
}

// SendReminder sends an appointment reminder.
func (s *Service) SendReminder(ctx context.Context, email, name, doctor, slot string) error {
	if email == "" {
		return fmt.Errorf("notify: recipient email is required")
	}
	msg := EmailMessage{
		To:      email,
		ToName:  name,
		Subject: "Appointment Reminder",
		Body: fmt.Sprintf(
			"Hello %s,\n\nThis is a reminder of your upcoming appointment with %s on %s. "+
				"If you need to reschedule, please contact the clinic.\n\n"+
				"MediCare Scheduling",
			name, doctor, slot,
		),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}
	s.logger.Info("reminder sent", "to", email, "doctor", doctor, "slot", slot)
	return nil
}
