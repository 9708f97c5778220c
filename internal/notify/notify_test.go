package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmail struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (f *fakeEmail) SendEmail(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to+"|"+subject+"|"+body)
	f.mu.Unlock()
	return f.fail
}

type fakeWhatsApp struct {
	mu   sync.Mutex
	sent []string
	fail error
}

func (f *fakeWhatsApp) SendWhatsApp(ctx context.Context, to, body string) error {
	f.mu.Lock()
	f.sent = append(f.sent, to+"|"+body)
	f.mu.Unlock()
	return f.fail
}

type fakeRecords struct {
	mu      sync.Mutex
	entries []string
	fail    error
}

func (f *fakeRecords) Record(ctx context.Context, userID, channel, destination, title, body, status string) error {
	f.mu.Lock()
	f.entries = append(f.entries, strings.Join([]string{userID, channel, destination, status}, "|"))
	f.mu.Unlock()
	return f.fail
}

func TestRequestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid email only", Request{UserID: "u1", Email: "a@b.c", Message: "hi"}, false},
		{"valid whatsapp only", Request{UserID: "u1", WhatsApp: "+15550100", Message: "hi"}, false},
		{"missing user", Request{Email: "a@b.c", Message: "hi"}, true},
		{"missing message", Request{UserID: "u1", Email: "a@b.c"}, true},
		{"no channel", Request{UserID: "u1", Message: "hi"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), ErrCodeMissingRecipient)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDispatchFansOutBothChannels(t *testing.T) {
	email := &fakeEmail{}
	wa := &fakeWhatsApp{}
	rec := &fakeRecords{}
	relay := &Relay{Email: email, WhatsApp: wa, Records: rec}

	results, err := relay.Dispatch(context.Background(), Request{
		UserID:   "u1",
		Email:    "artist@example.com",
		WhatsApp: "+15550100",
		Subject:  "Payment received",
		Message:  "Client payment received.",
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0], "artist@example.com|Payment received")
	assert.Len(t, wa.sent, 1)
	assert.Contains(t, wa.sent[0], "+15550100")

	require.Len(t, rec.entries, 2)
	for _, e := range rec.entries {
		assert.True(t, strings.HasSuffix(e, "|sent"), "expected sent record, got %s", e)
	}
}

func TestDispatchDefaultSubject(t *testing.T) {
	email := &fakeEmail{}
	relay := &Relay{Email: email}

	_, err := relay.Dispatch(context.Background(), Request{UserID: "u1", Email: "a@b.c", Message: "hi"})
	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0], "New Project Update")
}

func TestDispatchOneChannelFailureIsolated(t *testing.T) {
	email := &fakeEmail{fail: errors.New("smtp down")}
	wa := &fakeWhatsApp{}
	rec := &fakeRecords{}
	relay := &Relay{Email: email, WhatsApp: wa, Records: rec}

	results, err := relay.Dispatch(context.Background(), Request{
		UserID: "u1", Email: "a@b.c", WhatsApp: "+15550100", Message: "hi",
	})
	require.Error(t, err)
	require.Len(t, results, 2)

	// WhatsApp still went out
	assert.Len(t, wa.sent, 1)

	var emailRes, waRes *Result
	for i := range results {
		switch results[i].Channel {
		case ChannelEmail:
			emailRes = &results[i]
		case ChannelWhatsApp:
			waRes = &results[i]
		}
	}
	require.NotNil(t, emailRes)
	require.NotNil(t, waRes)
	assert.Error(t, emailRes.SendErr)
	assert.NoError(t, waRes.SendErr)

	// The failed send is recorded as failed, the good one as sent
	var failed, sent int
	for _, e := range rec.entries {
		if strings.HasSuffix(e, "|failed") {
			failed++
		}
		if strings.HasSuffix(e, "|sent") {
			sent++
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, sent)
}

func TestDispatchRecordFailureDoesNotFailSend(t *testing.T) {
	email := &fakeEmail{}
	rec := &fakeRecords{fail: errors.New("db down")}
	relay := &Relay{Email: email, Records: rec}

	results, err := relay.Dispatch(context.Background(), Request{UserID: "u1", Email: "a@b.c", Message: "hi"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.NoError(t, results[0].SendErr)
	assert.Error(t, results[0].RecordErr)
}

func TestDispatchSkipsUnconfiguredChannels(t *testing.T) {
	wa := &fakeWhatsApp{}
	relay := &Relay{WhatsApp: wa} // no email sender configured

	results, err := relay.Dispatch(context.Background(), Request{
		UserID: "u1", Email: "a@b.c", WhatsApp: "+15550100", Message: "hi",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, ChannelWhatsApp, results[0].Channel)
}

func TestDispatchNoUsableChannel(t *testing.T) {
	relay := &Relay{} // nothing configured
	_, err := relay.Dispatch(context.Background(), Request{UserID: "u1", Email: "a@b.c", Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrCodeMissingRecipient)
}

func TestHandlerSuccess(t *testing.T) {
	email := &fakeEmail{}
	relay := &Relay{Email: email}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
		strings.NewReader(`{"userId":"u1","email":"a@b.c","message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	require.NoError(t, relay.Handler(c))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"success":true`)
	assert.Len(t, email.sent, 1)
}

func TestHandlerMissingRecipient(t *testing.T) {
	relay := &Relay{Email: &fakeEmail{}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
		strings.NewReader(`{"userId":"u1","message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	require.NoError(t, relay.Handler(c))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), ErrCodeMissingRecipient)
}

func TestHandlerAllChannelsFailed(t *testing.T) {
	relay := &Relay{Email: &fakeEmail{fail: errors.New("smtp down")}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/send",
		strings.NewReader(`{"userId":"u1","email":"a@b.c","message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	require.NoError(t, relay.Handler(c))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
