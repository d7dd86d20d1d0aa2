package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/darasahq/darasa/apps/api/echo"
	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/bulletin"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enroll"
	"github.com/darasahq/darasa/core/notify"
	"github.com/darasahq/darasa/core/report"
	emailsvc "github.com/darasahq/darasa/services/email"
	logsvc "github.com/darasahq/darasa/services/logger"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

var (
	errUnauthorized       = httpErr{Error: "Unauthorized"}
	errInvalidCredentials = httpErr{Error: "Invalid credentials"}
	errNotFound           = httpErr{Error: "not found"}
)

type testApp struct {
	app           echoapi.Server
	conf          *core.Config
	authenticator *auth.Authenticator

	accountSvc  *account.Service
	courseSvc   *course.Service
	enrollSvc   *enroll.Service
	bulletinSvc *bulletin.Service
	reportSvc   *report.Service
	notifySvc   *notify.Service
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := &core.Config{
		TestMode:  true,
		AppName:   "Darasa",
		SecretKey: []byte("test-secret"),
	}
	conf.Server.JWTExpirationDelta = time.Hour

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	authenticator, err := auth.NewAuthenticator(conf)
	if err != nil {
		t.Fatalf("NewAuthenticator() failed: %v", err)
	}

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	accountRepo := dummydb.NewAccountRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	enrollRepo := dummydb.NewEnrollmentRepository(db)
	bulletinRepo := dummydb.NewBulletinRepository(db)
	reportRepo := dummydb.NewReportRepository(db)
	notifyRepo := dummydb.NewNotificationRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	accountSvc := account.NewService(conf, accountRepo, accountRepo, accountRepo, mailSvc)
	courseSvc := course.NewService(courseRepo)
	notifySvc := notify.NewService(notifyRepo)
	enrollSvc := enroll.NewService(enrollRepo, courseSvc, notifySvc, accountRepo)
	bulletinSvc := bulletin.NewService(bulletinRepo, notifySvc, accountRepo)
	reportSvc := report.NewService(conf, reportRepo, notifySvc, accountRepo, mailSvc)

	app := echoapi.NewServer(&echoapi.Options{
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
		DisableReqLogs: true,
		Authenticator:  authenticator,
		Validate:       validate,
		Translator:     translator,
		AccountSvc:     accountSvc,
		CourseSvc:      courseSvc,
		EnrollSvc:      enrollSvc,
		BulletinSvc:    bulletinSvc,
		ReportSvc:      reportSvc,
		NotifySvc:      notifySvc,
	})

	return &testApp{
		app:           app,
		conf:          conf,
		authenticator: authenticator,
		accountSvc:    accountSvc,
		courseSvc:     courseSvc,
		enrollSvc:     enrollSvc,
		bulletinSvc:   bulletinSvc,
		reportSvc:     reportSvc,
		notifySvc:     notifySvc,
	}
}

// fixtures

func (ta *testApp) createAdmin(t *testing.T, uname string) account.Admin {
	t.Helper()
	adm, err := ta.accountSvc.RegisterAdmin(context.Background(), account.NewAdmin{
		Username: uname, Password: "V3ry$ecret!", PasswordConfirm: "V3ry$ecret!",
	})
	if err != nil {
		t.Fatalf("RegisterAdmin() failed: %v", err)
	}
	return adm
}

func (ta *testApp) createTeacher(t *testing.T, name, uname, email string) account.Teacher {
	t.Helper()
	tch, err := ta.accountSvc.RegisterTeacher(context.Background(), account.NewTeacher{
		Name: name, Username: uname, Email: email,
		Password: "V3ry$ecret!", PasswordConfirm: "V3ry$ecret!",
	})
	if err != nil {
		t.Fatalf("RegisterTeacher() failed: %v", err)
	}
	return tch
}

func (ta *testApp) createStudent(t *testing.T, first, last, uname, email string) account.Student {
	t.Helper()
	std, err := ta.accountSvc.RegisterStudent(context.Background(), account.NewStudent{
		FirstName: first, LastName: last, Username: uname, Email: email,
		Password: "V3ry$ecret!", PasswordConfirm: "V3ry$ecret!",
	})
	if err != nil {
		t.Fatalf("RegisterStudent() failed: %v", err)
	}
	return std
}

func (ta *testApp) createCourse(t *testing.T, title string, price float64) course.Course {
	t.Helper()
	crs, err := ta.courseSvc.CreateCourse(context.Background(), course.NewCourse{
		Title: title, Description: title + " description", Price: price,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

// getCookie mints a session cookie the way a login response would.
func (ta *testApp) getCookie(t *testing.T, principalID int, role auth.Role) *http.Cookie {
	t.Helper()
	token, err := ta.authenticator.IssueCredential(principalID, role)
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}
	return ta.authenticator.Namespace(role).Cookie(token)
}

// requests

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
	wantData []byte // nil means: check the status code only
	extra    interface{}
}

func newAuthRequest(method, path string, cookie *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
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
	return newAuthRequest(method, path, nil, data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	if objs == nil {
		objs = []interface{}{} // handlers render empty lists as [], not null
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body = %s", err, rec.Body.String())
	}
}

// findCookie returns the named cookie from the response, or nil.
func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
