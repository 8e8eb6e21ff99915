package services

// Mailer delivers the transactional emails sent by the services.
type Mailer interface {
	SendVerification(to, name, link string) error
	SendResetOTP(to, name, otp string) error
	SendPasswordChanged(to, name string) error
	SendNewRequest(to, mechanicName, problemType, serviceType, city string) error
}
