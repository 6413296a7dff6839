package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/mindcare-be/internal/api/handlers"
	"github.com/isdelr/mindcare-be/internal/assistant"
	"github.com/isdelr/mindcare-be/internal/auth"
	"github.com/isdelr/mindcare-be/internal/models"
	"github.com/isdelr/mindcare-be/internal/monitoring"
	"github.com/isdelr/mindcare-be/internal/navigation"
	"github.com/isdelr/mindcare-be/internal/seed"
	"github.com/isdelr/mindcare-be/internal/services"
	"github.com/isdelr/mindcare-be/internal/session"
	"github.com/isdelr/mindcare-be/internal/store"
	"github.com/isdelr/mindcare-be/internal/websocket"
)

var testNow = time.Date(2024, 9, 17, 12, 0, 0, 0, time.UTC)

type stubAssistant struct {
	calls   int
	message string
}

func (s *stubAssistant) Reply(_ context.Context, _ []assistant.Message, message string) assistant.Reply {
	s.calls++
	s.message = message
	return assistant.Reply{Text: "Try a short walk and some deep breaths.", Outcome: assistant.OutcomeOK}
}

type testEnv struct {
	srv       *httptest.Server
	store     *store.Store
	hub       *websocket.Hub
	assistant *stubAssistant
}

func newTestEnv(t *testing.T, chatRate int) *testEnv {
	t.Helper()

	st := store.New(seed.Fixtures(), store.WithClock(func() time.Time { return testNow }))
	events := services.NewEventService(0)
	appointments := services.NewAppointmentService(st, events)
	forum := services.NewForumService(st, events)

	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	t.Cleanup(websocket.ForwardChanges(st, hub))

	stub := &stubAssistant{}
	cookies := session.NewManager("0123456789abcdef0123456789abcdef", false, 3600)

	router := NewRouter(Deps{
		Hub:            hub,
		Auth:           auth.NewAuthenticator(st, cookies, []byte("router-test-secret")),
		Users:          services.NewUserService(st),
		Resources:      services.NewResourceService(st, events),
		Appointments:   appointments,
		Forum:          forum,
		Dashboards:     services.NewDashboardService(st, appointments, forum),
		Events:         events,
		Assistant:      stub,
		Health:         monitoring.NewHealthChecker(hub.ClientCount),
		ChatRatePerMin: chatRate,
		Now:            func() time.Time { return testNow },
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st, hub: hub, assistant: stub}
}

func (e *testEnv) do(t *testing.T, client *http.Client, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if client == nil {
		client = e.srv.Client()
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) login(t *testing.T, userID string) string {
	t.Helper()
	resp, data := e.do(t, nil, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: userID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out handlers.SessionResponse
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotNil(t, out.User)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestLoginUnknownUserIsIgnored(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, data := env.do(t, nil, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: "nobody"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[handlers.SessionResponse](t, data)
	assert.Nil(t, out.User)
	assert.Empty(t, out.Token)
	assert.Empty(t, resp.Cookies())
}

func TestCookieSessionLifecycle(t *testing.T) {
	env := newTestEnv(t, 0)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, data := env.do(t, client, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: "c1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decode[handlers.SessionResponse](t, data)
	assert.Equal(t, "/counselor", login.HomePath)
	assert.Equal(t, navigation.Items(models.RoleCounselor), login.Navigation)

	_, data = env.do(t, client, http.MethodGet, "/api/v1/session", "", nil)
	current := decode[handlers.SessionResponse](t, data)
	require.NotNil(t, current.User)
	assert.Equal(t, "c1", current.User.ID)

	resp, _ = env.do(t, client, http.MethodGet, "/api/v1/counselor/dashboard", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, client, http.MethodDelete, "/api/v1/session", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, data = env.do(t, client, http.MethodGet, "/api/v1/session", "", nil)
	assert.Nil(t, decode[handlers.SessionResponse](t, data).User)

	resp, _ = env.do(t, client, http.MethodGet, "/api/v1/counselor/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginWithUnknownUserKeepsSession(t *testing.T) {
	env := newTestEnv(t, 0)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp, data := env.do(t, client, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: "nobody"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, decode[handlers.SessionResponse](t, data).User)

	resp, _ = env.do(t, client, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: "s1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = env.do(t, client, http.MethodPost, "/api/v1/session", "", handlers.LoginRequest{UserID: "nobody"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	kept := decode[handlers.SessionResponse](t, data)
	require.NotNil(t, kept.User)
	assert.Equal(t, "s1", kept.User.ID)
	assert.Equal(t, "/student", kept.HomePath)
	assert.Empty(t, kept.Token)

	_, data = env.do(t, client, http.MethodGet, "/api/v1/session", "", nil)
	current := decode[handlers.SessionResponse](t, data)
	require.NotNil(t, current.User)
	assert.Equal(t, "s1", current.User.ID)
}

func TestRoleGating(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s1")

	resp, _ := env.do(t, nil, http.MethodGet, "/api/v1/resources", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, nil, http.MethodGet, "/api/v1/resources", student, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, nil, http.MethodGet, "/api/v1/admin/dashboard", student, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/resources", student, services.NewResource{Title: "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetUserByID(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s1")

	resp, _ := env.do(t, nil, http.MethodGet, "/api/v1/users/c2", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data := env.do(t, nil, http.MethodGet, "/api/v1/users/c2", student, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	u := decode[models.User](t, data)
	assert.Equal(t, "c2", u.ID)
	assert.Equal(t, models.RoleCounselor, u.Role)

	resp, _ = env.do(t, nil, http.MethodGet, "/api/v1/users/nobody", student, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNavigationResolve(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s1")

	_, data := env.do(t, nil, http.MethodGet, "/api/v1/navigation?path=/admin", student, nil)
	d := decode[navigation.Decision](t, data)
	assert.False(t, d.Allowed)
	assert.Equal(t, "/student", d.Redirect)

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/navigation?path=/student/forum", "", nil)
	d = decode[navigation.Decision](t, data)
	assert.Equal(t, navigation.LoginPath, d.Redirect)
}

func TestUsersForLoginPicker(t *testing.T) {
	env := newTestEnv(t, 0)

	_, data := env.do(t, nil, http.MethodGet, "/api/v1/users", "", nil)
	grouped := decode[map[models.Role][]services.LoginOption](t, data)
	assert.Len(t, grouped[models.RoleStudent], 3)
	assert.Len(t, grouped[models.RoleCounselor], 3)
	assert.Len(t, grouped[models.RoleAdmin], 1)

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/users?role=admin", "", nil)
	admins := decode[[]models.User](t, data)
	require.Len(t, admins, 1)
	assert.Equal(t, "a1", admins[0].ID)

	resp, _ := env.do(t, nil, http.MethodGet, "/api/v1/users?role=janitor", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStudentBooking(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s1")

	resp, data := env.do(t, nil, http.MethodPost, "/api/v1/appointments", student, services.BookingRequest{CounselorID: "c2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	verr := decode[services.ValidationError](t, data)
	assert.Equal(t, "Please select a counselor, date, and time for your appointment.", verr.Message)
	assert.Len(t, env.store.Snapshot().Appointments, 5)

	resp, data = env.do(t, nil, http.MethodPost, "/api/v1/appointments", student, services.BookingRequest{
		CounselorID: "c2", Date: "2024-09-20", Time: "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(data), "Your appointment request has been sent to Dr. Michael Rodriguez. They will confirm it shortly.")

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/appointments/mine", student, nil)
	mine := decode[[]services.AppointmentView](t, data)
	require.Len(t, mine, 3)
	last := mine[len(mine)-1]
	assert.Equal(t, "2024-09-20", last.Date)
	assert.Equal(t, models.StatusPending, last.Status)
	assert.Equal(t, "individual", last.Type)
	assert.Equal(t, "Initial consultation", last.Notes)
}

func TestCounselorActions(t *testing.T) {
	env := newTestEnv(t, 0)
	counselor := env.login(t, "c2")
	other := env.login(t, "c1")

	_, data := env.do(t, nil, http.MethodGet, "/api/v1/counselor/bookings?status=pending", counselor, nil)
	bookings := decode[handlers.BookingsResponse](t, data)
	require.Len(t, bookings.Appointments, 1)
	assert.Equal(t, "apt2", bookings.Appointments[0].ID)
	assert.Equal(t, []models.AppointmentAction{models.ActionAccept, models.ActionDecline}, bookings.Appointments[0].Actions)
	assert.Equal(t, 1, bookings.Counts["pending"])

	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/appointments/apt2/action", other, handlers.ActionRequest{Action: models.ActionAccept})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, data = env.do(t, nil, http.MethodPost, "/api/v1/appointments/apt2/action", counselor, handlers.ActionRequest{Action: models.ActionAccept})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Appointment confirmed successfully!")
	stored, ok := env.store.Appointment("apt2")
	require.True(t, ok)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/appointments/apt2/action", counselor, handlers.ActionRequest{Action: models.ActionAccept})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/appointments/apt2/action", counselor, handlers.ActionRequest{Action: models.ActionComplete})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminResourceCuration(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.login(t, "a1")

	resp, data := env.do(t, nil, http.MethodPost, "/api/v1/resources", admin, services.NewResource{Title: "Sleep Hygiene", Type: models.ResourceArticle})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	verr := decode[services.ValidationError](t, data)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "category", verr.Fields[0].Field)

	resp, data = env.do(t, nil, http.MethodPost, "/api/v1/resources", admin, services.NewResource{
		Title: "Sleep Hygiene", Type: models.ResourceArticle, Category: "Sleep & Relaxation",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(data), "Sleep Hygiene has been added to the resource library.")
	assert.Len(t, env.store.Snapshot().Resources, 9)

	resp, _ = env.do(t, nil, http.MethodDelete, "/api/v1/resources/r1", admin, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, nil, http.MethodDelete, "/api/v1/resources/r1", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Len(t, env.store.Snapshot().Resources, 8)

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/admin/resources/library", admin, nil)
	library := decode[services.ResourceLibrary](t, data)
	assert.Equal(t, 8, library.Total)

	status := models.StatusCancelled
	resp, _ = env.do(t, nil, http.MethodPatch, "/api/v1/appointments/apt5", admin, models.AppointmentPatch{Status: &status})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, nil, http.MethodPatch, "/api/v1/appointments/apt99", admin, models.AppointmentPatch{Status: &status})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestForumPostAndReply(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s2")

	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/forum", student, services.NewPost{Title: strings.Repeat("x", 101), Content: "body"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data := env.do(t, nil, http.MethodPost, "/api/v1/forum", student, services.NewPost{Title: "Exam nerves", Content: "Any tips?", Tags: "exams, stress"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(data), "Your post has been shared with the community.")

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/forum", student, nil)
	posts := decode[[]models.ForumPost](t, data)
	require.Len(t, posts, 4)
	assert.Equal(t, "Exam nerves", posts[0].Title)
	assert.Equal(t, []string{"exams", "stress"}, posts[0].Tags)

	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/forum/"+posts[0].ID+"/replies", student, services.NewReply{Content: "Following!"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/forum/f99/replies", student, services.NewReply{Content: "hello?"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssistantChat(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s3")

	_, data := env.do(t, nil, http.MethodGet, "/api/v1/assistant/topics", student, nil)
	topics := decode[handlers.TopicsResponse](t, data)
	assert.Equal(t, assistant.QuickTopics, topics.Topics)
	assert.NotEmpty(t, topics.EmergencyContacts)

	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/assistant/chat", student, handlers.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.assistant.calls)

	resp, data = env.do(t, nil, http.MethodPost, "/api/v1/assistant/chat", student, handlers.ChatRequest{Message: " I can't sleep "})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	reply := decode[assistant.Reply](t, data)
	assert.False(t, reply.IsError)
	assert.Equal(t, "Try a short walk and some deep breaths.", reply.Text)
	assert.Equal(t, "I can't sleep", env.assistant.message)
}

func TestAssistantChatIsRateLimited(t *testing.T) {
	env := newTestEnv(t, 2)
	student := env.login(t, "s1")

	for i := 0; i < 2; i++ {
		resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/assistant/chat", student, handlers.ChatRequest{Message: "hello"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/assistant/chat", student, handlers.ChatRequest{Message: "hello"})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, env.assistant.calls)
}

func TestDashboards(t *testing.T) {
	env := newTestEnv(t, 0)

	_, data := env.do(t, nil, http.MethodGet, "/api/v1/admin/dashboard", env.login(t, "a1"), nil)
	admin := decode[services.AdminDashboard](t, data)
	assert.Equal(t, 5, admin.Stats.TotalAppointments)

	resp, _ := env.do(t, nil, http.MethodGet, "/api/v1/student/dashboard", env.login(t, "s1"), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestActivityLogFilters(t *testing.T) {
	env := newTestEnv(t, 0)
	student := env.login(t, "s1")

	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/appointments", student, services.BookingRequest{
		CounselorID: "c2", Date: "2024-09-20", Time: "10:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, nil, http.MethodPost, "/api/v1/forum", student, services.NewPost{Title: "Exam nerves", Content: "Any tips?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, data := env.do(t, nil, http.MethodGet, "/api/v1/events?type=appointment.", student, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := decode[[]models.Event](t, data)
	require.NotEmpty(t, events)
	for _, e := range events {
		assert.True(t, strings.HasPrefix(e.Type, "appointment."), e.Type)
	}

	_, data = env.do(t, nil, http.MethodGet, "/api/v1/events?limit=1", student, nil)
	latest := decode[[]models.Event](t, data)
	require.Len(t, latest, 1)
	assert.Equal(t, "forum.post", latest[0].Type)

	resp, _ = env.do(t, nil, http.MethodGet, "/api/v1/events?limit=zero", student, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t, 0)

	resp, data := env.do(t, nil, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[monitoring.Health](t, data).Status)

	resp, data = env.do(t, nil, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "mindcare_http_requests_total")
}

func TestWebSocketReceivesStoreChanges(t *testing.T) {
	env := newTestEnv(t, 0)
	admin := env.login(t, "a1")

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/v1/ws?topics=resources"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return env.hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	resp, _ := env.do(t, nil, http.MethodPost, "/api/v1/forum", admin, services.NewPost{Title: "Hours", Content: "Open late this week."})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, _ = env.do(t, nil, http.MethodDelete, "/api/v1/resources/r2", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg websocket.Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.ActionChange, msg.Action)
	assert.Equal(t, "resources", msg.Topic)
	payload, ok := msg.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "delete", payload["op"])
	assert.Equal(t, "r2", payload["id"])

	require.NoError(t, conn.WriteJSON(websocket.Message{Action: websocket.ActionSubscribe, Topic: "forum"}))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.ActionSubscribed, msg.Action)
	assert.Equal(t, "forum", msg.Topic)
}
