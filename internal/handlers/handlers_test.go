package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/analytics"
	"github.com/ukydev/ac-service-backend/internal/audit"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/db/dbmock"
	"github.com/ukydev/ac-service-backend/internal/events"
	"github.com/ukydev/ac-service-backend/internal/middleware"
	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAuditor) Record(entry audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingAuditor) Entries() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Entry(nil), r.entries...)
}

type published struct {
	Type    string
	Payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Type: eventType, Payload: payload})
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fakePDFStore struct {
	ref     string
	saveErr error
	saved   []byte
	removed []string
}

func (f *fakePDFStore) SavePDF(r io.Reader) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.saved = data
	return f.ref, nil
}

func (f *fakePDFStore) Remove(ref string) error {
	f.removed = append(f.removed, ref)
	return nil
}

type fakeReports struct {
	days      int
	xlsxBytes []byte
	err       error
}

func (f *fakeReports) Revenue(ctx context.Context, days int) (*analytics.RevenueReport, error) {
	f.days = days
	if f.err != nil {
		return nil, f.err
	}
	return &analytics.RevenueReport{Days: days, TotalRevenue: 4500}, nil
}

func (f *fakeReports) Trends(ctx context.Context, days int) (*analytics.TrendsReport, error) {
	f.days = days
	return &analytics.TrendsReport{}, f.err
}

func (f *fakeReports) Services(ctx context.Context, days int) (*analytics.ServicesReport, error) {
	f.days = days
	return &analytics.ServicesReport{}, f.err
}

func (f *fakeReports) Dashboard(ctx context.Context, days int) (*analytics.Dashboard, error) {
	f.days = days
	return &analytics.Dashboard{}, f.err
}

func (f *fakeReports) WriteXLSX(ctx context.Context, w io.Writer, days int) error {
	f.days = days
	if f.err != nil {
		return f.err
	}
	_, err := w.Write(f.xlsxBytes)
	return err
}

// testEnv is a fully routed API backed by mocks
type testEnv struct {
	authService *auth.Service
	users       *dbmock.UserCollection
	bookings    *dbmock.BookingCollection
	inquiries   *dbmock.InquiryCollection
	reviews     *dbmock.ReviewCollection
	auditLogs   *dbmock.AuditLogCollection
	reports     *fakeReports
	files       *fakePDFStore
	publisher   *recordingPublisher
	auditor     *recordingAuditor
	router      *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	authService, err := auth.NewService("test-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()

	env := &testEnv{
		authService: authService,
		users:       &dbmock.UserCollection{},
		bookings:    &dbmock.BookingCollection{},
		inquiries:   &dbmock.InquiryCollection{},
		reviews:     &dbmock.ReviewCollection{},
		auditLogs:   &dbmock.AuditLogCollection{},
		reports:     &fakeReports{},
		files:       &fakePDFStore{ref: "/uploads/quotations/q.pdf"},
		publisher:   &recordingPublisher{},
		auditor:     &recordingAuditor{},
	}
	env.router = NewRouter(Dependencies{
		AuthService: authService,
		Users:       env.users,
		Bookings:    env.bookings,
		Inquiries:   env.inquiries,
		Reviews:     env.reviews,
		AuditLogs:   env.auditLogs,
		Reports:     env.reports,
		Files:       env.files,
		Publisher:   env.publisher,
		Auditor:     env.auditor,

		GeneralLimiter: middleware.NewRateLimitMiddleware(1000, time.Minute, ""),
		AuthLimiter:    middleware.NewRateLimitMiddleware(1000, time.Minute, ""),
		Logger:         logger,
	})
	t.Cleanup(func() {
		env.users.AssertExpectations(t)
		env.bookings.AssertExpectations(t)
		env.inquiries.AssertExpectations(t)
		env.reviews.AssertExpectations(t)
		env.auditLogs.AssertExpectations(t)
	})
	return env
}

func (e *testEnv) token(t *testing.T, role models.Role) (string, primitive.ObjectID) {
	t.Helper()
	id := primitive.NewObjectID()
	token, err := e.authService.GenerateToken(&models.User{ID: id, Role: role})
	require.NoError(t, err)
	return token, id
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func fieldNames(resp ErrorResponse) []string {
	names := make([]string, 0, len(resp.Errors))
	for _, fe := range resp.Errors {
		names = append(names, fe.Field)
	}
	return names
}

var _ events.Publisher = (*recordingPublisher)(nil)
