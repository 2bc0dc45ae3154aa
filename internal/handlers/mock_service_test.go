package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"task_manager/internal/config"
	"task_manager/internal/models"
	"task_manager/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	parseID        string
	parseErr       error
	parseCalls     int
	lastParseToken string
}

func (m *mockAuth) HashPassword(password string) (string, error) { return "hash:" + password, nil }

func (m *mockAuth) CheckPassword(hash, password string) bool { return hash == "hash:"+password }

func (m *mockAuth) GenerateToken(userID string) (string, error) { return "token-" + userID, nil }

func (m *mockAuth) ParseToken(token string) (string, error) {
	m.parseCalls++
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockUsers struct {
	registerUser models.User
	registerErr  error
	lastRegister service.RegisterInput
	registerCall int

	loginToken string
	loginUser  models.User
	loginErr   error
	lastEmail  string

	listResp []models.UserSummary
	listErr  error

	getUser  models.User
	getErr   error
	getCalls int
	lastGet  string
}

func (m *mockUsers) Register(_ context.Context, in service.RegisterInput) (models.User, error) {
	m.registerCall++
	m.lastRegister = in
	return m.registerUser, m.registerErr
}

func (m *mockUsers) Login(_ context.Context, email, _ string) (string, models.User, error) {
	m.lastEmail = email
	return m.loginToken, m.loginUser, m.loginErr
}

func (m *mockUsers) List(context.Context) ([]models.UserSummary, error) {
	return m.listResp, m.listErr
}

func (m *mockUsers) Get(_ context.Context, id string) (models.User, error) {
	m.getCalls++
	m.lastGet = id
	return m.getUser, m.getErr
}

type mockTasks struct {
	createResp  models.TaskView
	createErr   error
	createCalls int
	lastCreate  service.TaskInput

	listResp []models.TaskView
	listErr  error

	getResp  models.TaskView
	getErr   error
	getCalls int

	updateResp  models.TaskView
	updateErr   error
	updateCalls int
	lastUpdate  service.TaskInput

	deleteErr   error
	deleteCalls int

	dashboardResp  models.Dashboard
	dashboardErr   error
	dashboardCalls int
	lastCaller     string
	lastDashboard  string
}

func (m *mockTasks) Create(_ context.Context, in service.TaskInput) (models.TaskView, error) {
	m.createCalls++
	m.lastCreate = in
	return m.createResp, m.createErr
}

func (m *mockTasks) List(context.Context) ([]models.TaskView, error) {
	return m.listResp, m.listErr
}

func (m *mockTasks) Get(context.Context, string) (models.TaskView, error) {
	m.getCalls++
	return m.getResp, m.getErr
}

func (m *mockTasks) Update(_ context.Context, _ string, in service.TaskInput) (models.TaskView, error) {
	m.updateCalls++
	m.lastUpdate = in
	return m.updateResp, m.updateErr
}

func (m *mockTasks) Delete(context.Context, string) error {
	m.deleteCalls++
	return m.deleteErr
}

func (m *mockTasks) Dashboard(_ context.Context, callerID, userID string) (models.Dashboard, error) {
	m.dashboardCalls++
	m.lastCaller = callerID
	m.lastDashboard = userID
	return m.dashboardResp, m.dashboardErr
}

// ---- Test helpers ----

const (
	testToken  = "good-token"
	testUserID = "65f0c0ffee65f0c0ffee0001"
)

var testUser = models.User{ID: testUserID, Username: "alice", Email: "alice@example.com"}

type mocks struct {
	auth  *mockAuth
	users *mockUsers
	tasks *mockTasks
}

// newMocks returns mocks whose gate accepts testToken as testUser.
func newMocks() *mocks {
	return &mocks{
		auth:  &mockAuth{parseID: testUserID},
		users: &mockUsers{getUser: testUser},
		tasks: &mockTasks{},
	}
}

func (m *mocks) svc() *service.Service {
	return &service.Service{Authorization: m.auth, Users: m.users, Tasks: m.tasks}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		DB:   config.DBConfig{Driver: config.DriverSQLite, SQLitePath: "test.db"},
		Auth: config.AuthConfig{JWTSecret: "secret"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	return NewHandler(s, cfg, nil).InitRoutes()
}

func authHeader(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+testToken)
}

func doRequest(r http.Handler, method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authed {
		authHeader(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
