package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/service"
)

type fakeMessagingService struct {
	MessagingService

	err         error
	gotHours    int
	gotSubject  string
	gotGuestIDs []uint
	welcomed    []uint
}

func (f *fakeMessagingService) SendWelcome(_ context.Context, _, guestID uint) error {
	if f.err != nil {
		return f.err
	}
	f.welcomed = append(f.welcomed, guestID)
	return nil
}

func (f *fakeMessagingService) SendReminder(_ context.Context, _ uint, hoursBefore int) (domain.MailingResult, error) {
	f.gotHours = hoursBefore
	return domain.MailingResult{Queued: 3}, f.err
}

func (f *fakeMessagingService) SendCustomMessage(_ context.Context, _ uint, subject, _ string, guestIDs []uint) (domain.MailingResult, error) {
	f.gotSubject = subject
	f.gotGuestIDs = guestIDs
	return domain.MailingResult{Queued: len(guestIDs)}, f.err
}

func newMessagingRouter(svc MessagingService) *gin.Engine {
	h := NewMessagingHandler(svc)
	return newRouter(func(protected, _ *gin.RouterGroup) {
		protected.POST("/events/:eventID/guests/:guestID/emails/welcome", h.HandleSendWelcome)
		protected.POST("/events/:eventID/emails/reminder", h.HandleSendReminder)
		protected.POST("/events/:eventID/emails/custom", h.HandleSendCustomMessage)
	})
}

func TestHandleSendWelcome(t *testing.T) {
	svc := &fakeMessagingService{}
	r := newMessagingRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/v1/events/1/guests/8/emails/welcome", nil, &operator)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []uint{8}, svc.welcomed)

	svc.err = service.ErrGuestHasNoEmail
	w = doRequest(t, r, http.MethodPost, "/api/v1/events/1/guests/8/emails/welcome", nil, &operator)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.err = service.ErrGuestNotFound
	w = doRequest(t, r, http.MethodPost, "/api/v1/events/1/guests/8/emails/welcome", nil, &operator)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSendReminder_Validation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
		code int
	}{
		{"one day", map[string]int{"hours_before_event": 24}, http.StatusAccepted},
		{"one week", map[string]int{"hours_before_event": 168}, http.StatusAccepted},
		{"too far ahead", map[string]int{"hours_before_event": 169}, http.StatusBadRequest},
		{"missing", map[string]int{}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeMessagingService{}
			r := newMessagingRouter(svc)

			w := doRequest(t, r, http.MethodPost, "/api/v1/events/1/emails/reminder", tt.body, &operator)
			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusAccepted {
				var res domain.MailingResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
				assert.Equal(t, 3, res.Queued)
			} else {
				assert.Zero(t, svc.gotHours)
			}
		})
	}
}

func TestHandleSendCustomMessage(t *testing.T) {
	svc := &fakeMessagingService{}
	r := newMessagingRouter(svc)

	w := doRequest(t, r, http.MethodPost, "/api/v1/events/1/emails/custom", map[string]interface{}{
		"subject":   "Cambio de horario",
		"message":   "La cena inicia a las 21:00",
		"guest_ids": []uint{4, 5},
	}, &operator)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "Cambio de horario", svc.gotSubject)
	assert.Equal(t, []uint{4, 5}, svc.gotGuestIDs)

	svc.gotSubject = ""
	w = doRequest(t, r, http.MethodPost, "/api/v1/events/1/emails/custom", map[string]interface{}{
		"subject": strings.Repeat("a", 256),
		"message": "hola",
	}, &operator)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/v1/events/1/emails/custom", map[string]interface{}{
		"subject": "Aviso",
		"message": strings.Repeat("a", 5001),
	}, &operator)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotSubject)
}

type fakeGuestService struct {
	GuestService

	deleteErr error
	deleted   []uint
}

func (f *fakeGuestService) DeleteGuest(_ context.Context, _, guestID uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, guestID)
	return nil
}

func TestHandleDeleteGuest(t *testing.T) {
	svc := &fakeGuestService{}
	h := NewGuestHandler(svc)
	r := newRouter(func(protected, _ *gin.RouterGroup) {
		protected.DELETE("/events/:eventID/guests/:guestID", h.HandleDeleteGuest)
	})

	w := doRequest(t, r, http.MethodDelete, "/api/v1/events/1/guests/9", nil, &operator)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uint{9}, svc.deleted)

	svc.deleteErr = service.ErrGuestIsWinner
	w = doRequest(t, r, http.MethodDelete, "/api/v1/events/1/guests/10", nil, &operator)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/v1/events/1/guests/10", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type fakePublicGuestService struct {
	gotCredentials string
}

func (f *fakePublicGuestService) LookupGuest(_ context.Context, token, credentials string) (domain.PublicGuest, error) {
	f.gotCredentials = credentials
	if token != "abc123" || credentials != "FXE-1234" {
		return domain.PublicGuest{}, service.ErrGuestNotFound
	}
	return domain.PublicGuest{FullName: "Ana López", QRCode: "QR-ANA"}, nil
}

func (f *fakePublicGuestService) GuestDetails(_ context.Context, token, qrCode string) (domain.PublicGuest, error) {
	if token != "abc123" || qrCode != "QR-ANA" {
		return domain.PublicGuest{}, service.ErrGuestNotFound
	}
	return domain.PublicGuest{FullName: "Ana López", QRCode: qrCode, HasAttended: true}, nil
}

func TestPublicGuestHandler_NoAuth(t *testing.T) {
	svc := &fakePublicGuestService{}
	h := NewPublicGuestHandler(svc)
	r := newRouter(func(_, public *gin.RouterGroup) {
		public.POST("/public/events/:token/guests/lookup", h.HandleLookupGuest)
		public.GET("/public/events/:token/guests/:qrCode", h.HandleGuestDetails)
	})

	w := doRequest(t, r, http.MethodPost, "/api/v1/public/events/abc123/guests/lookup", map[string]string{"credentials": "FXE-1234"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.PublicGuest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "QR-ANA", got.QRCode)

	w = doRequest(t, r, http.MethodPost, "/api/v1/public/events/abc123/guests/lookup", map[string]string{"credentials": "FXE-9"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.gotCredentials = ""
	w = doRequest(t, r, http.MethodPost, "/api/v1/public/events/abc123/guests/lookup", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.gotCredentials)

	w = doRequest(t, r, http.MethodGet, "/api/v1/public/events/abc123/guests/QR-ANA", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"has_attended":true`)

	w = doRequest(t, r, http.MethodGet, "/api/v1/public/events/abc123/guests/QR-NOPE", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
