package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHTTPDoer is a mock implementation of HTTPDoer
type MockHTTPDoer struct {
	mock.Mock
}

func (m *MockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

// Helper function to create mock HTTP response
func createMockResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestGetUpdates_Success(t *testing.T) {
	responseBody := `{
		"ok": true,
		"result": [
			{"update_id": 10, "message": {"message_id": 1, "from": {"id": 42}, "chat": {"id": 42}, "text": "Paris - Lyon"}},
			{"update_id": 11, "message": {"message_id": 2, "from": {"id": 43}, "chat": {"id": 43}, "text": "/start"}}
		]
	}`

	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		query := req.URL.Query()
		return strings.Contains(req.URL.Path, "/bottest-token/getUpdates") &&
			query.Get("offset") == "10" &&
			query.Get("timeout") == "30"
	})).Return(createMockResponse(200, responseBody), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.telegram.org", mockHTTP)

	updates, err := client.GetUpdates(context.Background(), 10, 30)

	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, int64(10), updates[0].UpdateID)
	assert.Equal(t, "Paris - Lyon", updates[0].Message.Text)
	assert.Equal(t, int64(42), updates[0].Message.From.ID)

	mockHTTP.AssertExpectations(t)
}

func TestGetUpdates_APIFailure(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(200, `{"ok": false, "description": "Unauthorized"}`), nil)

	client := NewClientWithHTTPDoer("bad-token", "https://api.telegram.org", mockHTTP)

	_, err := client.GetUpdates(context.Background(), 0, 30)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendMessage_WithKeyboard(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if !strings.Contains(req.URL.Path, "/bottest-token/sendMessage") {
			return false
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false
		}
		var payload struct {
			ChatID      int64          `json:"chat_id"`
			Text        string         `json:"text"`
			ReplyMarkup *ReplyKeyboard `json:"reply_markup"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return false
		}
		return payload.ChatID == 42 && payload.Text == "hello" &&
			payload.ReplyMarkup != nil && len(payload.ReplyMarkup.Keyboard) == 2
	})).Return(createMockResponse(200, `{"ok": true}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.telegram.org", mockHTTP)
	keyboard := NewReplyKeyboard([]string{"A", "B"}, []string{"C"})

	err := client.SendMessage(context.Background(), 42, "hello", keyboard)

	require.NoError(t, err)
	mockHTTP.AssertExpectations(t)
}

func TestSendMessage_WithoutKeyboard(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false
		}
		return !strings.Contains(string(body), "reply_markup")
	})).Return(createMockResponse(200, `{"ok": true}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.telegram.org", mockHTTP)

	err := client.SendMessage(context.Background(), 42, "hello", nil)

	require.NoError(t, err)
	mockHTTP.AssertExpectations(t)
}

func TestSendDocument_Success(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		if !strings.Contains(req.URL.Path, "/bottest-token/sendDocument") {
			return false
		}
		if !strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data") {
			return false
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false
		}
		text := string(body)
		return strings.Contains(text, `filename="trip.kml"`) && strings.Contains(text, "<kml")
	})).Return(createMockResponse(200, `{"ok": true}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.telegram.org", mockHTTP)

	err := client.SendDocument(context.Background(), 42, "trip.kml", []byte("<kml></kml>"))

	require.NoError(t, err)
	mockHTTP.AssertExpectations(t)
}

func TestSendMessage_RateLimit(t *testing.T) {
	mockHTTP := &MockHTTPDoer{}
	mockHTTP.On("Do", mock.AnythingOfType("*http.Request")).Return(
		createMockResponse(429, `{"ok": false, "description": "Too Many Requests"}`), nil)

	client := NewClientWithHTTPDoer("test-token", "https://api.telegram.org", mockHTTP)

	err := client.SendMessage(context.Background(), 42, "hello", nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestNewReplyKeyboard(t *testing.T) {
	kb := NewReplyKeyboard([]string{"A", "B"}, []string{"C"})

	require.Len(t, kb.Keyboard, 2)
	assert.Equal(t, "A", kb.Keyboard[0][0].Text)
	assert.Equal(t, "B", kb.Keyboard[0][1].Text)
	assert.Equal(t, "C", kb.Keyboard[1][0].Text)
	assert.True(t, kb.ResizeKeyboard)
}
