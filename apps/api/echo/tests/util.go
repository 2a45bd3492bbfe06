package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/koperasi/apps/api/echo"
	"github.com/trezcool/koperasi/core"
	"github.com/trezcool/koperasi/core/auth"
	"github.com/trezcool/koperasi/core/charity"
	"github.com/trezcool/koperasi/core/dashboard"
	"github.com/trezcool/koperasi/core/guard"
	"github.com/trezcool/koperasi/core/loan"
	"github.com/trezcool/koperasi/core/member"
	"github.com/trezcool/koperasi/core/payment"
	"github.com/trezcool/koperasi/core/product"
	"github.com/trezcool/koperasi/core/profile"
	"github.com/trezcool/koperasi/core/session"
	emailsvc "github.com/trezcool/koperasi/services/email"
	"github.com/trezcool/koperasi/storage/database/inmem"
	"github.com/trezcool/koperasi/storage/slot/memslot"
	"github.com/trezcool/koperasi/tests"
)

const cookieName = "koperasi_session"

type app struct {
	Server
	sessions *session.Manager
	slots    *memslot.Store
	mailer   *emailsvc.ConsoleService
}

func testConfig() *core.Config {
	conf := &core.Config{
		AppName:   "Koperasi",
		Env:       "TEST",
		TestMode:  true,
		SecretKey: "test-secret",
	}
	conf.Server.DisableReqLogs = true
	conf.Session.KeyPrefix = "user"
	conf.Session.CookieName = cookieName
	conf.Session.CookieMaxAge = time.Hour
	return conf
}

// setup builds a server over a seeded database. slots and verifier are optional.
func setup(t *testing.T, slots *memslot.Store, verifier auth.CredentialVerifier) *app {
	t.Helper()
	if slots == nil {
		slots = memslot.New()
	}
	if verifier == nil {
		verifier = testutil.NewVerifier(t)
	}

	conf := testConfig()
	logger := testutil.NewLogger()
	mailer := testutil.NewMailer()
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	member.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)

	db := inmemdb.OpenSeeded()
	memberRepo := inmemdb.NewMemberRepository(db)
	memberSvc := member.NewService(memberRepo)
	paymentSvc := payment.NewService(inmemdb.NewPaymentRepository(db), memberRepo, mailer)
	productSvc := product.NewService(inmemdb.NewProductRepository(db))
	charitySvc := charity.NewService(inmemdb.NewCharityRepository(db), mailer)
	profileSvc := profile.NewService(inmemdb.NewProfileRepository(db))

	sessions := session.NewManager(verifier, slots.Slot, logger, conf.Session.KeyPrefix, session.Options{})
	server := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Sessions:     sessions,
		Guard:        guard.New(nil),
		Validate:     validate,
		Translator:   translator,
		DemoAccounts: true,
		DashboardSvc: dashboard.NewService(memberSvc, paymentSvc, productSvc, charitySvc, profileSvc),
		MemberSvc:    memberSvc,
		PaymentSvc:   paymentSvc,
		ProductSvc:   productSvc,
		CharitySvc:   charitySvc,
		LoanSvc:      loan.NewService(inmemdb.NewLoanRepository(db)),
		ProfileSvc:   profileSvc,
	})
	return &app{Server: server, sessions: sessions, slots: slots, mailer: mailer}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	cookie   *http.Cookie
	wantCode int
	wantData []byte
	extra    interface{}
}

func newSessionRequest(method, path string, cookie *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newSessionRequest(method, path, nil, data...)
}

func (a *app) do(method, path string, cookie *http.Cookie, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newSessionRequest(method, path, cookie, data...)
	a.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set by a response, if any.
func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cookieName {
			return ck
		}
	}
	return nil
}

// login signs in as the example account holding role and returns the session cookie.
func (a *app) login(t *testing.T, role auth.Role) *http.Cookie {
	t.Helper()
	p := testutil.Principal(t, role)
	body := marchallObj(t, LoginRequest{Email: p.Email, Password: "password"})
	rec := a.do(http.MethodPost, "/v1/login", nil, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("login() failed: %d %s", rec.Code, rec.Body.String())
	}
	ck := sessionCookie(rec)
	if ck == nil {
		t.Fatal("login() failed: no session cookie")
	}
	return ck
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

// blockingVerifier holds the verification of one email until release is closed.
// entered is closed once that verification has started.
type blockingVerifier struct {
	auth.CredentialVerifier
	email   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingVerifier(t *testing.T, email string) *blockingVerifier {
	return &blockingVerifier{
		CredentialVerifier: testutil.NewVerifier(t),
		email:              email,
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
}

func (v *blockingVerifier) Verify(ctx context.Context, email, password string) (auth.Principal, error) {
	if email == v.email {
		v.once.Do(func() { close(v.entered) })
		select {
		case <-v.release:
		case <-ctx.Done():
			return auth.Principal{}, ctx.Err()
		}
	}
	return v.CredentialVerifier.Verify(ctx, email, password)
}
