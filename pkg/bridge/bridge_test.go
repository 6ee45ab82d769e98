package bridge

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/loom-ui/loom"
	"github.com/loom-ui/loom/el"
	"github.com/loom-ui/loom/pkg/handler"
	"github.com/loom-ui/loom/pkg/vnode"
	"github.com/loom-ui/loom/pkg/wire"
)

func counterApp(c *loom.Ctx) int {
	count := c.UseSignalI32(0)
	inc := c.UseHandler(handler.Entry{
		Action: handler.ActionAdd, Signal: count, Operand: 1, Event: "click",
	})
	tplID := c.RegisterTemplate(el.Build("counter",
		el.Div(
			el.H1(el.DynText()),
			el.Button(el.DynAttr(), el.Text("+1")),
		),
	))

	text := c.Store.PushText(strconv.Itoa(int(c.Int(count))))
	return c.Store.Push(vnode.VNode{
		Kind:       vnode.KindTemplateRef,
		TemplateID: tplID,
		DynNodes:   []int{text},
		DynAttrs:   []vnode.DynAttr{{Name: "click", Value: vnode.EventValue(inc)}},
	})
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := NewServer(counterApp,
		WithMetrics(NewMetrics(WithRegistry(prometheus.NewRegistry()))),
		WithCheckOrigin(func(*http.Request) bool { return true }),
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthz(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := testServer(t)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readBatch(t *testing.T, conn *websocket.Conn) []wire.Record {
	t.Helper()
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	records, _, err := wire.ReadBatch(msg)
	if err != nil {
		t.Fatalf("ReadBatch: %v", err)
	}
	return records
}

func TestSessionEventLoop(t *testing.T) {
	ts := testServer(t)
	conn := dialWS(t, ts)

	create := readBatch(t, conn)
	var button wire.Record
	found := false
	for _, r := range create {
		if r.Op == wire.OpNewEventListener && r.Name == "click" {
			button, found = r, true
		}
	}
	if !found {
		t.Fatalf("create batch %v has no click listener", create)
	}

	// A malformed frame is logged and skipped, not fatal.
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2}); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}

	click := EncodeEventFrame(EventFrame{Element: button.ID, Type: handler.EventClick})
	for want := 1; want <= 3; want++ {
		if err := conn.WriteMessage(websocket.BinaryMessage, click); err != nil {
			t.Fatalf("write click %d: %v", want, err)
		}
		update := readBatch(t, conn)
		if len(update) != 1 || update[0].Op != wire.OpSetText {
			t.Fatalf("click %d: batch = %+v, want one SetText", want, update)
		}
		if update[0].Text != strconv.Itoa(want) {
			t.Errorf("click %d: text = %q, want %q", want, update[0].Text, strconv.Itoa(want))
		}
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := testServer(t)
	a := dialWS(t, ts)
	b := dialWS(t, ts)

	createA := readBatch(t, a)
	readBatch(t, b)

	var button wire.Record
	for _, r := range createA {
		if r.Op == wire.OpNewEventListener {
			button = r
		}
	}
	click := EncodeEventFrame(EventFrame{Element: button.ID, Type: handler.EventClick})
	if err := a.WriteMessage(websocket.BinaryMessage, click); err != nil {
		t.Fatalf("write click: %v", err)
	}
	update := readBatch(t, a)
	if len(update) != 1 || update[0].Text != "1" {
		t.Fatalf("session a batch = %+v, want SetText %q", update, "1")
	}

	// Session b saw nothing; its next read must time out, not deliver a's
	// update.
	b.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := b.ReadMessage(); err == nil {
		t.Error("session b received a batch for session a's event")
	}
}
