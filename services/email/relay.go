package emailsvc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/mealmatch/mealmatch/core"
)

// RelayMessage is the relay process's wire contract.
type RelayMessage struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

// relayService forwards messages to the notification relay process over HTTP
// instead of talking to the provider directly. Fire-and-forget: failures are
// logged and dropped, there is no queue and no retry.
type relayService struct {
	conf    *core.Config
	baseURL string
	client  *http.Client
	logger  core.Logger
}

var _ core.EmailService = (*relayService)(nil)

func NewRelayService(conf *core.Config, logger core.Logger) *relayService {
	return &relayService{
		conf:    conf,
		baseURL: conf.Relay.BaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (svc *relayService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := msg.Render(svc.conf); err != nil {
				svc.logger.Error(fmt.Sprintf("rendering email: %v", err), err)
				return
			}
			if !msg.HasRecipients() || !msg.HasContent() {
				return
			}
			for _, to := range msg.To {
				if err := svc.send(RelayMessage{
					To:      to.Address,
					Subject: msg.Subject,
					Text:    msg.TextContent,
				}); err != nil {
					svc.logger.Error(fmt.Sprintf("relaying email: %v", err), err)
				}
			}
		}()
	}
}

func (svc *relayService) send(m RelayMessage) error {
	body, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshaling relay message")
	}

	res, err := svc.client.Post(svc.baseURL+"/api/emails/send", "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "posting to relay")
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		var relayErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		_ = json.NewDecoder(res.Body).Decode(&relayErr)
		return fmt.Errorf("relay: status %d: %s: %s", res.StatusCode, relayErr.Error, relayErr.Details)
	}
	return nil
}
