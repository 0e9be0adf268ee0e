package relayapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealmatch/mealmatch/core"
	testutil "github.com/mealmatch/mealmatch/tests"
)

type senderStub struct {
	sent []core.EmailMessage
	err  error
}

func (s *senderStub) Send(msg core.EmailMessage) error {
	s.sent = append(s.sent, msg)
	return s.err
}

func newTestServer(sender Sender) Server {
	return NewServer(ServerDeps{
		Conf:           testutil.NewConfig(),
		Logger:         testutil.Logger{},
		Validate:       validator.New(),
		Sender:         sender,
		DisableReqLogs: true,
	})
}

func doPost(app Server, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/emails/send", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func Test_relay_send(t *testing.T) {
	sender := &senderStub{}
	app := newTestServer(sender)

	body, _ := json.Marshal(map[string]string{
		"to":      "jlee@brandeis.edu",
		"subject": "You're signed up!",
		"text":    "Hi Jo,",
	})
	rec := doPost(app, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Email sent successfully"}`, rec.Body.String())

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "jlee@brandeis.edu", msg.To[0].Address)
	assert.Equal(t, "You're signed up!", msg.Subject)
	assert.Equal(t, "Hi Jo,", msg.TextContent)
}

func Test_relay_send_providerFailure(t *testing.T) {
	sender := &senderStub{err: errors.New("sendgrid: status 401")}
	app := newTestServer(sender)

	body, _ := json.Marshal(map[string]string{
		"to":      "jlee@brandeis.edu",
		"subject": "hi",
		"text":    "hello",
	})
	rec := doPost(app, body)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var res struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Failed to send email", res.Error)
	assert.Contains(t, res.Details, "sendgrid: status 401")
}

func Test_relay_send_badRequests(t *testing.T) {
	sender := &senderStub{}
	app := newTestServer(sender)

	tests := []struct {
		name string
		body []byte
	}{
		{name: "not json", body: []byte("to=someone")},
		{name: "missing to", body: []byte(`{"subject":"hi","text":"hello"}`)},
		{name: "invalid to", body: []byte(`{"to":"nope","subject":"hi","text":"hello"}`)},
		{name: "missing text", body: []byte(`{"to":"jlee@brandeis.edu","subject":"hi"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPost(app, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, sender.sent)
}

func Test_relay_healthz(t *testing.T) {
	app := newTestServer(&senderStub{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
