package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/config/router"
	"github.com/akeren/waitlist-api/domain"
	"github.com/akeren/waitlist-api/domain/waitlist"
	"github.com/akeren/waitlist-api/internal/auth"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/mailer"
	pkgredis "github.com/akeren/waitlist-api/pkg/redis"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/suite"
)

const (
	adminUser     = "admin"
	adminPassword = "correct-horse"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []*mailer.Message
}

func (s *recordingSender) Name() string { return "recording" }

func (s *recordingSender) Send(_ context.Context, msg *mailer.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return "msg-1", nil
}

func (s *recordingSender) messages() []*mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*mailer.Message(nil), s.sent...)
}

type WaitlistAPITestSuite struct {
	suite.Suite
	server    *httptest.Server
	baseURL   string
	redis     *miniredis.Miniredis
	sender    *recordingSender
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	logger := log.NewLoggerWithWriter(io.Discard)
	ctx := context.Background()

	db, err := config.NewDatabase(ctx, logger, &config.DBConfig{URL: "sqlite://file::memory:", ConnectAttempts: 1})
	suite.Require().NoError(err)
	suite.Require().NoError(config.AutoMigrate(logger, db, models.ModelRegistry...))

	suite.redis = miniredis.RunT(suite.T())
	cache := pkgredis.NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: suite.redis.Addr()}))

	routerService := router.CreateRouterService(logger, &router.RouterConfig{
		RequestTimeout:     10 * time.Second,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		MetricsEnabled:     true,
	})

	suite.sender = &recordingSender{}
	notifier := mailer.NewNotifier(mailer.NotifierConfig{
		Sender:     suite.sender,
		From:       mailer.FormatFrom("Luminary Labs", "hello@luminary.test"),
		Logger:     logger,
		Registerer: routerService.MetricsRegisterer(),
	})

	suite.appConfig = &config.ApplicationConfig{
		DB:            db,
		RouterService: routerService,
		Logger:        logger,
		Cache:         cache,
		Config:        &config.AppConfig{StatsCacheTTL: time.Minute},
		Admin:         auth.NewCredentialChecker(adminUser, adminPassword),
		Notifier:      notifier,
		StartedAt:     time.Now(),
	}

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(routerService.GetEngine())
	suite.baseURL = suite.server.URL + "/api/v1"
}

func (suite *WaitlistAPITestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
	}
	suite.appConfig.Cleanup()
}

func (suite *WaitlistAPITestSuite) do(method, path string, body any, withAuth bool) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, suite.baseURL+path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withAuth {
		req.SetBasicAuth(adminUser, adminPassword)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)
	return resp, raw
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, body := suite.do(http.MethodGet, "/health", nil, false)

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.JSONEq(`{"status":"ok","message":"API is running."}`, string(body))
}

func (suite *WaitlistAPITestSuite) TestReadiness() {
	resp, body := suite.do(http.MethodGet, "/health/ready", nil, false)

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), `"database":"up"`)
	suite.Contains(string(body), `"cache":"up"`)
}

func (suite *WaitlistAPITestSuite) TestSignupFlow() {
	resp, body := suite.do(http.MethodPost, "/signup", map[string]string{"email": "a@x.com"}, false)
	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.JSONEq(`{"message":"Success! Welcome to the waitlist. Check your email."}`, string(body))

	resp, body = suite.do(http.MethodPost, "/signup", map[string]string{"email": "a@x.com"}, false)
	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.JSONEq(`{"detail":"Email already registered on the waitlist."}`, string(body))

	resp, _ = suite.do(http.MethodPost, "/signup", map[string]string{"email": "not-an-email"}, false)
	suite.Equal(http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = suite.do(http.MethodGet, "/waitlist", nil, false)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	suite.Equal(`Basic realm="admin"`, resp.Header.Get("WWW-Authenticate"))

	resp, body = suite.do(http.MethodGet, "/waitlist", nil, true)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	var entries []struct {
		ID         uint   `json:"id"`
		Email      string `json:"email"`
		SignupDate string `json:"signup_date"`
	}
	suite.Require().NoError(json.Unmarshal(body, &entries))
	suite.Require().Len(entries, 1)
	suite.Equal("a@x.com", entries[0].Email)
	_, err := time.Parse("2006-01-02 15:04:05", entries[0].SignupDate)
	suite.NoError(err)

	sent := suite.sender.messages()
	suite.Require().Len(sent, 1)
	suite.Equal("a@x.com", sent[0].To)
	suite.Equal("Luminary Labs <hello@luminary.test>", sent[0].From)
}

func (suite *WaitlistAPITestSuite) TestConcurrentDuplicateSignups() {
	const attempts = 10

	codes := make([]int, attempts)
	errs := make([]error, attempts)
	payload := []byte(`{"email":"race@x.com"}`)

	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < attempts; i++ {
		done.Add(1)
		go func(i int) {
			defer done.Done()
			start.Wait()

			resp, err := http.Post(suite.baseURL+"/signup", "application/json", bytes.NewReader(payload))
			if err != nil {
				errs[i] = err
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			codes[i] = resp.StatusCode
		}(i)
	}
	start.Done()
	done.Wait()

	created, conflicts := 0, 0
	for i := 0; i < attempts; i++ {
		suite.Require().NoError(errs[i])
		switch codes[i] {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			suite.Failf("unexpected status", "request %d returned %d", i, codes[i])
		}
	}
	suite.Equal(1, created)
	suite.Equal(attempts-1, conflicts)

	count, err := waitlist.NewWaitlistRepository(suite.appConfig.DB).CountEntries(context.Background())
	suite.Require().NoError(err)
	suite.Equal(int64(1), count)
	suite.Len(suite.sender.messages(), 1)
}

func (suite *WaitlistAPITestSuite) TestAdminLogin() {
	resp, body := suite.do(http.MethodPost, "/admin/login", nil, true)
	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.JSONEq(`{"message":"Admin 'admin' logged in successfully.","token":"placeholder-admin-session-token-12345"}`, string(body))

	resp, body = suite.do(http.MethodPost, "/admin/login", nil, false)
	suite.Equal(http.StatusUnauthorized, resp.StatusCode)
	suite.JSONEq(`{"detail":"Invalid admin credentials."}`, string(body))
}

func (suite *WaitlistAPITestSuite) TestAdminLogin_PasswordNotConfigured() {
	suite.server.Close()

	logger := log.NewLoggerWithWriter(io.Discard)
	rs := router.CreateRouterService(logger, &router.RouterConfig{})
	suite.appConfig.RouterService = rs
	suite.appConfig.Admin = auth.NewCredentialChecker(adminUser, "")
	suite.appConfig.Notifier = mailer.NewNotifier(mailer.NotifierConfig{Logger: logger})
	domain.SetupCoreDomain(suite.appConfig)
	suite.server = httptest.NewServer(rs.GetEngine())
	suite.baseURL = suite.server.URL + "/api/v1"

	resp, body := suite.do(http.MethodPost, "/admin/login", nil, true)
	suite.Equal(http.StatusInternalServerError, resp.StatusCode)
	suite.JSONEq(`{"detail":"Server Misconfiguration: Admin password not set."}`, string(body))
}

func (suite *WaitlistAPITestSuite) TestStatsInvalidatedOnSignup() {
	suite.do(http.MethodPost, "/signup", map[string]string{"email": "first@x.com"}, false)

	resp, body := suite.do(http.MethodGet, "/admin/stats", nil, true)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), `"total_signups":1`)
	suite.True(suite.redis.Exists("waitlist:stats"))

	suite.do(http.MethodPost, "/signup", map[string]string{"email": "second@x.com"}, false)
	suite.False(suite.redis.Exists("waitlist:stats"))

	resp, body = suite.do(http.MethodGet, "/admin/stats", nil, true)
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(body), `"total_signups":2`)
	suite.Contains(string(body), `"new_this_week":2`)
}

func (suite *WaitlistAPITestSuite) TestMetricsExposeSignupOutcomes() {
	suite.do(http.MethodPost, "/signup", map[string]string{"email": "m@x.com"}, false)

	resp, err := http.Get(suite.server.URL + "/metrics")
	suite.Require().NoError(err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	suite.Require().NoError(err)

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Contains(string(raw), `waitlist_signups_total{outcome="created"} 1`)
	suite.Contains(string(raw), `waitlist_confirmation_emails_total{outcome="sent",provider="recording"} 1`)
}

func TestWaitlistAPITestSuite(t *testing.T) {
	suite.Run(t, new(WaitlistAPITestSuite))
}
