package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGatewayMessengerSendsForm(t *testing.T) {
	var captured struct {
		path string
		user string
		pass string
		form map[string]string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.user, captured.pass, _ = r.BasicAuth()
		require.NoError(t, r.ParseForm())
		captured.form = map[string]string{
			"From": r.PostFormValue("From"),
			"To":   r.PostFormValue("To"),
			"Body": r.PostFormValue("Body"),
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	messenger, err := NewGatewayMessenger(GatewaySettings{
		Enabled:    true,
		BaseURL:    srv.URL,
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550000000",
		Timeout:    time.Second,
	}, srv.Client())
	require.NoError(t, err)

	err = messenger.SendText(context.Background(), "+2348012345678", "Reminder: lesson at 16:00.")
	require.NoError(t, err)

	require.Equal(t, "/Accounts/AC123/Messages.json", captured.path)
	require.Equal(t, "AC123", captured.user)
	require.Equal(t, "secret", captured.pass)
	require.Equal(t, "+15550000000", captured.form["From"])
	require.Equal(t, "+2348012345678", captured.form["To"])
	require.Equal(t, "Reminder: lesson at 16:00.", captured.form["Body"])
}

func TestGatewayMessengerDisabled(t *testing.T) {
	messenger, err := NewGatewayMessenger(GatewaySettings{Enabled: false}, nil)
	require.NoError(t, err)

	err = messenger.SendText(context.Background(), "+2348012345678", "hello")
	require.ErrorIs(t, err, ErrMessagingDisabled)
}

func TestGatewayMessengerSurfacesGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid destination"}`))
	}))
	defer srv.Close()

	messenger, err := NewGatewayMessenger(GatewaySettings{
		Enabled:    true,
		BaseURL:    srv.URL,
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550000000",
	}, srv.Client())
	require.NoError(t, err)

	err = messenger.SendText(context.Background(), "+2348012345678", "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid destination")
}

func TestGatewayMessengerConfigValidation(t *testing.T) {
	_, err := NewGatewayMessenger(GatewaySettings{Enabled: true}, nil)
	require.Error(t, err)

	_, err = NewGatewayMessenger(GatewaySettings{
		Enabled:    true,
		AccountSID: "AC123",
		AuthToken:  "secret",
	}, nil)
	require.Error(t, err)
}

func TestGatewayMessengerRejectsEmptyRecipient(t *testing.T) {
	messenger, err := NewGatewayMessenger(GatewaySettings{
		Enabled:    true,
		BaseURL:    "http://gateway.invalid",
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550000000",
	}, nil)
	require.NoError(t, err)

	err = messenger.SendText(context.Background(), "  ", "hello")
	require.Error(t, err)
}
