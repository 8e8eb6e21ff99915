package utils

import (
	"bytes"
	"errors"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML email through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   user,
	}
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	if m == nil || m.dialer.Host == "" {
		return errors.New("smtp is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

var (
	verifyTmpl = template.Must(template.New("verify").Parse(
		`<p>Hi {{.Name}},</p>
<p>Please confirm your email address by opening the link below. It expires in 24 hours.</p>
<p><a href="{{.Link}}">Verify email</a></p>`))

	otpTmpl = template.Must(template.New("otp").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your password reset code is <strong>{{.OTP}}</strong>. It expires in 10 minutes.</p>
<p>If you did not ask for a reset you can ignore this email.</p>`))

	changedTmpl = template.Must(template.New("changed").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your password was changed. If this was not you, reset it immediately.</p>`))

	requestTmpl = template.Must(template.New("request").Parse(
		`<p>Hi {{.Name}},</p>
<p>You have a new service request.</p>
<ul>
	<li><strong>Problem:</strong> {{.ProblemType}}</li>
	<li><strong>Service:</strong> {{.ServiceType}}</li>
	<li><strong>City:</strong> {{.City}}</li>
</ul>
<p>Open your dashboard to accept or reject it.</p>`))
)

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m *Mailer) send(to, subject string, t *template.Template, data any) error {
	body, err := render(t, data)
	if err != nil {
		return err
	}
	return m.SendEmail(to, subject, body)
}

func (m *Mailer) SendVerification(to, name, link string) error {
	return m.send(to, "Verify your email", verifyTmpl, map[string]string{"Name": name, "Link": link})
}

func (m *Mailer) SendResetOTP(to, name, otp string) error {
	return m.send(to, "Your password reset code", otpTmpl, map[string]string{"Name": name, "OTP": otp})
}

func (m *Mailer) SendPasswordChanged(to, name string) error {
	return m.send(to, "Your password was changed", changedTmpl, map[string]string{"Name": name})
}

func (m *Mailer) SendNewRequest(to, mechanicName, problemType, serviceType, city string) error {
	return m.send(to, "New service request", requestTmpl, map[string]string{
		"Name":        mechanicName,
		"ProblemType": problemType,
		"ServiceType": serviceType,
		"City":        city,
	})
}
