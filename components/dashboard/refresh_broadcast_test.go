package dashboard

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("s1")
	defer cancel()
	event := StateEvent{SessionID: "s1", Reason: ReasonRole}
	if err := hook.StateChanged(context.Background(), event); err != nil {
		t.Fatalf("StateChanged returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.Reason != event.Reason {
			t.Fatalf("expected reason %s, got %s", event.Reason, e.Reason)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookFiltersSessions(t *testing.T) {
	hook := NewBroadcastHook()
	mine, cancelMine := hook.Subscribe("s1")
	defer cancelMine()
	all, cancelAll := hook.Subscribe("")
	defer cancelAll()

	require.NoError(t, hook.StateChanged(context.Background(), StateEvent{SessionID: "s2", Reason: ReasonSidebar}))
	select {
	case e := <-mine:
		t.Fatalf("unexpected event for other session: %#v", e)
	default:
	}
	select {
	case e := <-all:
		assert.Equal(t, "s2", e.SessionID)
	default:
		t.Fatalf("expected wildcard subscriber to receive event")
	}
	assert.Equal(t, 2, hook.Subscribers())
}

func TestBroadcastHookCancelClosesChannel(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe("s1")
	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hook.Subscribers())
}

func TestBroadcastHookDropsForSlowSubscribers(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe("s1")
	defer cancel()
	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, hook.StateChanged(context.Background(), StateEvent{SessionID: "s1"}))
	}
}

func TestRefreshHooksJoinErrors(t *testing.T) {
	first := &recordingHook{}
	failing := &recordingHook{err: errors.New("down")}
	hooks := RefreshHooks{first, nil, failing}
	err := hooks.StateChanged(context.Background(), StateEvent{SessionID: "s"})
	require.Error(t, err)
	assert.Len(t, first.events, 1)
	assert.Len(t, failing.events, 1)
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeWebSocket(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ws-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hook.StateChanged(context.Background(), StateEvent{SessionID: "ws-1", Reason: ReasonLanguage}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event StateEvent
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, ReasonLanguage, event.Reason)
}

func TestBroadcastHookServeWebSocketReleasesOnClientClose(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeWebSocket(w, r, "ws-quiet")
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	require.NoError(t, conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(time.Second)))
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return hook.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestBroadcastHookServeSSE(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hook.ServeSSE(w, r, "sse-1")
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, hook.StateChanged(context.Background(), StateEvent{SessionID: "sse-1", Reason: ReasonMapLayer}))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "))
	var event StateEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &event))
	assert.Equal(t, ReasonMapLayer, event.Reason)
}
