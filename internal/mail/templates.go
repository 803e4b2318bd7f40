package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

var tmpl = template.Must(template.New("mail").ParseFS(files, "templates/*.html"))

type Message struct {
	To      string
	Subject string
	HTML    string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func compose(to, subject, name string, data any) (Message, error) {
	html, err := render(name, data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, HTML: html}, nil
}

func VerifyEmail(to, name, link string) (Message, error) {
	return compose(to, "Confirm your email", "verify.html", map[string]any{
		"Name": name,
		"Link": link,
	})
}

func ResetPassword(to, name, link string) (Message, error) {
	return compose(to, "Reset your password", "reset.html", map[string]any{
		"Name": name,
		"Link": link,
	})
}

type AppointmentData struct {
	PatientName string
	DoctorName  string
	Start       time.Time
	Status      string
}

func AppointmentStatus(to string, d AppointmentData) (Message, error) {
	return compose(to, "Your appointment is "+d.Status, "appointment_status.html", d)
}

func AppointmentReminder(to string, d AppointmentData) (Message, error) {
	return compose(to, "Appointment reminder", "appointment_reminder.html", d)
}
