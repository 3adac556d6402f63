package delivery

import (
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// StatusInfo is one provider-side status report for a sent unit.
type StatusInfo struct {
	Status       string
	ErrorCode    int
	ErrorMessage string
}

// Messenger is the outbound messaging provider. Calls block until the
// provider answers; the run model is synchronous with no mid-run
// cancellation.
type Messenger interface {
	// Send delivers one message body and returns the provider-assigned
	// unit id.
	Send(to, body string) (string, error)
	// Status fetches the provider's delivery status for a unit id.
	Status(unitID string) (StatusInfo, error)
}

// TwilioMessenger sends WhatsApp messages through Twilio.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(accountSID, authToken, from string) *TwilioMessenger {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioMessenger{
		client: client,
		from:   from,
	}
}

func (m *TwilioMessenger) Send(to, body string) (string, error) {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(m.from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := m.client.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio send: %w", err)
	}
	if msg.Sid == nil {
		return "", fmt.Errorf("twilio send: reply missing sid")
	}
	return *msg.Sid, nil
}

func (m *TwilioMessenger) Status(unitID string) (StatusInfo, error) {
	msg, err := m.client.Api.FetchMessage(unitID, &twilioapi.FetchMessageParams{})
	if err != nil {
		return StatusInfo{}, fmt.Errorf("twilio status: %w", err)
	}

	var info StatusInfo
	if msg.Status != nil {
		info.Status = *msg.Status
	}
	if msg.ErrorCode != nil {
		info.ErrorCode = *msg.ErrorCode
	}
	if msg.ErrorMessage != nil {
		info.ErrorMessage = *msg.ErrorMessage
	}
	return info, nil
}
