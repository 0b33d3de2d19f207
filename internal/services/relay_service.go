package services

import (
	"time"

	"github.com/guonaihong/gout"

	"github.com/ruruk/palcofon/internal/domain"
)

// Result is the uniform outcome of a relay call, mapped straight to a user
// notification. Relay functions never return errors past this boundary.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ContactSubmission struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=100"`
	Message string `json:"message" validate:"required,max=4000"`
	Phone   string `json:"phone,omitempty" validate:"max=30"`
	Company string `json:"company,omitempty" validate:"max=100"`
	Subject string `json:"subject,omitempty" validate:"max=200"`
	Source  string `json:"source"`
}

type InquirySubmission struct {
	SelectedProducts []domain.InquiryLineItem `json:"selectedProducts" validate:"required,min=1,dive"`
	Email            string                   `json:"email" validate:"required,email,max=100"`
	Message          string                   `json:"message" validate:"required,max=4000"`
}

// RelayService forwards form submissions to the external mail endpoints.
// Fire-and-forget: no retry, no queuing, no idempotency key, so a double
// click can produce duplicate emails (accepted).
type RelayService struct {
	ContactURL string
	InquiryURL string
	Timeout    time.Duration
}

func NewRelayService(contactURL, inquiryURL string) *RelayService {
	return &RelayService{
		ContactURL: contactURL,
		InquiryURL: inquiryURL,
		Timeout:    10 * time.Second,
	}
}

func (s *RelayService) SendContact(sub ContactSubmission) Result {
	return s.post(s.ContactURL, sub)
}

func (s *RelayService) SendInquiry(sub InquirySubmission) Result {
	return s.post(s.InquiryURL, sub)
}

func (s *RelayService) post(url string, body any) Result {
	var res Result
	var code int
	err := gout.POST(url).
		SetTimeout(s.Timeout).
		SetJSON(body).
		BindJSON(&res).
		Code(&code).
		Do()
	if err != nil || code < 200 || code > 299 {
		return Result{Success: false, Message: "Could not send your message. Please try again."}
	}
	return res
}
