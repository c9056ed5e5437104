package notification

type Type string

const (
	TypeAppointmentRequest   Type = "appointment_request"
	TypeAppointmentAccepted  Type = "appointment_accepted"
	TypeAppointmentRejected  Type = "appointment_rejected"
	TypeAppointmentCancelled Type = "appointment_cancelled"
	TypeReviewReceived       Type = "review_received"
	TypePaymentReceived      Type = "payment_received"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAppointmentRequest,
		TypeAppointmentAccepted,
		TypeAppointmentRejected,
		TypeAppointmentCancelled,
		TypeReviewReceived,
		TypePaymentReceived:
		return true
	}
	return false
}
