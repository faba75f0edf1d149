package notify

import (
	"encoding/json"
	"testing"
	"time"

	"campus-portal/internal/models"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Shutdown)
	return h
}

func newTestClient(t *testing.T, h *Hub) *Client {
	t.Helper()
	c := &Client{hub: h, send: make(chan []byte, 8), id: "test-" + t.Name()}
	h.Register <- c
	return c
}

func joinAs(h *Hub, c *Client, role models.Role, id int) {
	h.Join(c, role, id)
}

// recvNotification waits for one frame on the client's outbound queue and
// decodes it.
func recvNotification(t *testing.T, c *Client) models.Notification {
	t.Helper()
	select {
	case data := <-c.send:
		var event struct {
			Event   string              `json:"event"`
			Payload models.Notification `json:"payload"`
		}
		if err := json.Unmarshal(data, &event); err != nil {
			t.Fatalf("Failed to decode frame: %v", err)
		}
		if event.Event != models.EventNotification {
			t.Fatalf("Event = %q, want %q", event.Event, models.EventNotification)
		}
		return event.Payload
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for notification")
		return models.Notification{}
	}
}

func expectNone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("Unexpected frame delivered: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNotifyUser_SingleID(t *testing.T) {
	h := newTestHub(t)

	a := newTestClient(t, h)
	b := newTestClient(t, h)
	joinAs(h, a, models.RoleStudent, 42)
	joinAs(h, b, models.RoleStudent, 43)

	h.NotifyUser(models.RoleStudent, []int{42}, models.Notification{
		Type:    models.NotificationInfo,
		Title:   "Attendance Marked",
		Message: "Recorded for today",
	})

	n := recvNotification(t, a)
	if n.Title != "Attendance Marked" {
		t.Errorf("Title = %q, want %q", n.Title, "Attendance Marked")
	}
	if n.Type != models.NotificationInfo {
		t.Errorf("Type = %q, want %q", n.Type, models.NotificationInfo)
	}
	expectNone(t, b)
}

func TestNotifyUser_MultipleIDs(t *testing.T) {
	h := newTestHub(t)

	a := newTestClient(t, h)
	b := newTestClient(t, h)
	c := newTestClient(t, h)
	joinAs(h, a, models.RoleStudent, 1)
	joinAs(h, b, models.RoleStudent, 2)
	joinAs(h, c, models.RoleStudent, 3)

	h.NotifyUser(models.RoleStudent, []int{1, 2}, models.Notification{Title: "Marks Published", Message: "Check your dashboard"})

	recvNotification(t, a)
	recvNotification(t, b)
	expectNone(t, a)
	expectNone(t, b)
	expectNone(t, c)
}

func TestNotifyUser_MultipleConnectionsPerUser(t *testing.T) {
	h := newTestHub(t)

	tab1 := newTestClient(t, h)
	tab2 := newTestClient(t, h)
	joinAs(h, tab1, models.RoleFaculty, 7)
	joinAs(h, tab2, models.RoleFaculty, 7)

	h.NotifyUser(models.RoleFaculty, []int{7}, models.Notification{Title: "Meeting"})

	recvNotification(t, tab1)
	recvNotification(t, tab2)
}

func TestJoin_Idempotent(t *testing.T) {
	h := newTestHub(t)

	a := newTestClient(t, h)
	joinAs(h, a, models.RoleStudent, 42)
	joinAs(h, a, models.RoleStudent, 42)

	h.NotifyUser(models.RoleStudent, []int{42}, models.Notification{Title: "Once"})

	recvNotification(t, a)
	expectNone(t, a)
}

func TestNotifyUser_DuplicateIDs(t *testing.T) {
	h := newTestHub(t)

	a := newTestClient(t, h)
	joinAs(h, a, models.RoleStudent, 42)

	h.NotifyUser(models.RoleStudent, []int{42, 42}, models.Notification{Title: "Once"})

	recvNotification(t, a)
	expectNone(t, a)
}

func TestNotifyUserType(t *testing.T) {
	h := newTestHub(t)

	fac1 := newTestClient(t, h)
	fac2 := newTestClient(t, h)
	stu := newTestClient(t, h)
	joinAs(h, fac1, models.RoleFaculty, 1)
	joinAs(h, fac2, models.RoleFaculty, 2)
	joinAs(h, stu, models.RoleStudent, 1)

	h.NotifyUserType(models.RoleFaculty, models.Notification{
		Type:    models.NotificationWarning,
		Title:   "Meeting",
		Message: "3pm today",
	})

	n1 := recvNotification(t, fac1)
	if n1.Message != "3pm today" {
		t.Errorf("Message = %q, want %q", n1.Message, "3pm today")
	}
	recvNotification(t, fac2)
	expectNone(t, stu)
}

func TestNotifyAll_IncludesAnonymous(t *testing.T) {
	h := newTestHub(t)

	joined := newTestClient(t, h)
	anonymous := newTestClient(t, h)
	joinAs(h, joined, models.RoleAdmin, 1)

	h.NotifyAll(models.Notification{Type: models.NotificationSuccess, Title: "Result Declared"})

	recvNotification(t, joined)
	n := recvNotification(t, anonymous)
	if n.Type != models.NotificationSuccess {
		t.Errorf("Type = %q, want %q", n.Type, models.NotificationSuccess)
	}
}

func TestNotify_ZeroRecipients(t *testing.T) {
	h := newTestHub(t)

	bystander := newTestClient(t, h)
	joinAs(h, bystander, models.RoleStudent, 1)

	// Nobody is joined as student 999; the dispatch succeeds trivially.
	h.NotifyUser(models.RoleStudent, []int{999}, models.Notification{Title: "Nobody home"})
	h.NotifyUserType(models.RoleAdmin, models.Notification{Title: "No admins online"})

	expectNone(t, bystander)
}

func TestUnregister_LeavesAllRooms(t *testing.T) {
	h := newTestHub(t)

	a := newTestClient(t, h)
	b := newTestClient(t, h)
	joinAs(h, a, models.RoleStudent, 42)
	joinAs(h, b, models.RoleStudent, 43)

	h.Unregister <- a

	h.NotifyUserType(models.RoleStudent, models.Notification{Title: "Still here"})

	recvNotification(t, b)
	if _, open := <-a.send; open {
		t.Error("Unregistered client's queue should be closed without pending frames")
	}
}
