package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HackSU2026/RallyUp/internal/testutil"
)

func postChat(t *testing.T, ts *testutil.TestServer, token, message string) *http.Response {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"message": message})
	req, err := http.NewRequest("POST", ts.BaseURL()+"/chat", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

type chatResponse struct {
	Reply          string  `json:"reply"`
	CreatedEventID *string `json:"created_event_id"`
}

func TestChatConversation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.LoginPlayer(1200)

	ts.LLM.Script(testutil.TextResponse("A practice is a casual session."))

	resp := postChat(t, ts, token, "what is a practice?")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "A practice is a casual session.", out.Reply)
	assert.Nil(t, out.CreatedEventID)
}

func TestChatCreatesEvent(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, player := ts.LoginPlayer(1500)

	ts.LLM.Script(
		testutil.ToolUseResponse("toolu_01", map[string]any{
			"title":      "Friday Doubles",
			"event_type": "match",
			"variant":    "doubles",
			"location":   "Riverside Arena",
			"start_at":   "2030-06-15T18:00:00Z",
			"end_at":     "2030-06-15T20:00:00Z",
		}),
		testutil.TextResponse("Your match is booked!"),
	)

	resp := postChat(t, ts, token, "book a doubles match friday")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Your match is booked!", out.Reply)
	require.NotNil(t, out.CreatedEventID)
	assert.Equal(t, 2, ts.LLM.Calls())

	record, err := ts.DB.GetEvent(*out.CreatedEventID)
	require.NoError(t, err)
	assert.Equal(t, "Friday Doubles", record.Title)
	assert.Equal(t, player.ID, record.HostID)
	assert.Equal(t, 4, record.MaxParticipants)
	assert.Equal(t, 1300, record.RatingRange.Min)
	assert.Equal(t, 1700, record.RatingRange.Max)
	assert.Equal(t, "open", record.Status)
}

func TestChatValidationFailureStaysConversational(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.LoginPlayer(1000)

	ts.LLM.Script(
		testutil.ToolUseResponse("toolu_01", map[string]any{
			"event_type": "match",
			"variant":    "doubles",
			"location":   "Riverside Arena",
			"start_at":   "2020-01-01T18:00:00Z",
			"end_at":     "2020-01-01T20:00:00Z",
		}),
		testutil.TextResponse("That date is in the past. When did you mean?"),
	)

	resp := postChat(t, ts, token, "book a match for 2020")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "That date is in the past. When did you mean?", out.Reply)
	assert.Nil(t, out.CreatedEventID)

	// Nothing was persisted.
	var count int
	require.NoError(t, ts.DB.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestChatRejectsBadRequests(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.LoginPlayer(1000)

	t.Run("no credential", func(t *testing.T) {
		resp := postChat(t, ts, "", "hello")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("blank message", func(t *testing.T) {
		resp := postChat(t, ts, token, "  ")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/chat")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Method not allowed. Use POST.", body["error"])
	})
}

func TestChatToolLoopBounded(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.LoginPlayer(1000)

	// The model never stops asking for tool calls.
	ts.LLM.Script(testutil.ToolUseResponse("toolu_01", map[string]any{
		"event_type": "practice",
		"variant":    "singles",
		"location":   "Hall A",
		"start_at":   "2030-06-15T18:00:00Z",
		"end_at":     "2030-06-15T20:00:00Z",
	}))

	resp := postChat(t, ts, token, "keep going")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 6, ts.LLM.Calls())

	var out chatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Sorry, I couldn't process that request.", out.Reply)
}

func TestLogoutFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	token, _ := ts.LoginPlayer(1000)

	req, err := http.NewRequest("POST", ts.BaseURL()+"/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	chatResp := postChat(t, ts, token, "hello")
	defer chatResp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, chatResp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(fmt.Sprintf("%s/health", ts.BaseURL()))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
