// Package messaging builds the launcher strings for reaching clients
// over WhatsApp. The core only computes normalized numbers, message
// text, and deep links; actually opening them is the caller's job.
package messaging

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	ErrMissingPhone = errors.New("phone number is required")
	ErrInvalidPhone = errors.New("phone number has no digits")
)

// NormalizePhone strips a phone number to digits and rewrites it into
// international form: a leading 0 becomes the 972 country code, and a
// bare local number gets the code prefixed.
func NormalizePhone(phone string) (string, error) {
	if phone == "" {
		return "", ErrMissingPhone
	}
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return "", ErrInvalidPhone
	}
	switch {
	case strings.HasPrefix(digits, "0"):
		digits = "972" + digits[1:]
	case !strings.HasPrefix(digits, "972"):
		digits = "972" + digits
	}
	return digits, nil
}

// Link builds the api.whatsapp.com deep link for a phone number and an
// optional prefilled message.
func Link(phone, message string) (string, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return "", err
	}
	link := "https://api.whatsapp.com/send?phone=" + normalized
	if message != "" {
		link += "&text=" + url.QueryEscape(message)
	}
	return link, nil
}

// Canned message templates. Times are preformatted display strings.

func AppointmentReminder(clientName, timeOfDay string) string {
	return fmt.Sprintf("Hello %s! This is a reminder about your appointment today at %s.", clientName, timeOfDay)
}

func ConfirmationRequest(clientName, timeOfDay string) string {
	return fmt.Sprintf("Hello %s! Please confirm your appointment for %s.", clientName, timeOfDay)
}

func CancellationFollowUp(clientName string) string {
	return fmt.Sprintf("Hello %s! We noticed you cancelled your appointment. Would you like to reschedule?", clientName)
}

func GeneralMessage(clientName string) string {
	return fmt.Sprintf("Hello %s! This is a message from your clinic. How can we assist you today?", clientName)
}

func ScheduleRequest(clientName string) string {
	return fmt.Sprintf("Hello %s! Would you like to schedule your next appointment with us?", clientName)
}
