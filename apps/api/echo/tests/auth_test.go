package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
)

func Test_authApi_login(t *testing.T) {
	ta := setup(t)

	ta.createAdmin(t, "headmaster")
	ta.createTeacher(t, "Alan Kiptoo", "alankip", "alan@darasa.test")
	ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")

	loginOK := marchallObj(t, map[string]string{"message": "Login successful"})

	tests := []httpTest{
		{
			name: "admin login", path: "/v1/admin/login",
			body:     marchallObj(t, map[string]string{"username": "headmaster", "password": "V3ry$ecret!"}),
			wantCode: http.StatusOK, wantData: loginOK,
		},
		{
			name: "teacher login", path: "/v1/teachers/login",
			body:     marchallObj(t, map[string]string{"username": "alankip", "password": "V3ry$ecret!"}),
			wantCode: http.StatusOK, wantData: loginOK,
		},
		{
			name: "student login", path: "/v1/students/login",
			body:     marchallObj(t, map[string]string{"username": "naomich", "password": "V3ry$ecret!"}),
			wantCode: http.StatusOK, wantData: loginOK,
		},
		{
			name: "username is case-insensitive", path: "/v1/students/login",
			body:     marchallObj(t, map[string]string{"username": "NaomiCH", "password": "V3ry$ecret!"}),
			wantCode: http.StatusOK, wantData: loginOK,
		},
		{
			name: "unknown account", path: "/v1/admin/login",
			body:     marchallObj(t, map[string]string{"username": "nobody", "password": "V3ry$ecret!"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidCredentials),
		},
		{
			name: "wrong password looks identical", path: "/v1/admin/login",
			body:     marchallObj(t, map[string]string{"username": "headmaster", "password": "nope nope"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidCredentials),
		},
		{
			name: "cross-portal login rejected", path: "/v1/admin/login",
			body:     marchallObj(t, map[string]string{"username": "naomich", "password": "V3ry$ecret!"}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errInvalidCredentials),
		},
		{
			name: "missing fields", path: "/v1/students/login",
			body:     marchallObj(t, map[string]string{"username": "naomich"}),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_loginCookie(t *testing.T) {
	ta := setup(t)
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")

	req, rec := newRequest(http.MethodPost, "/v1/students/login",
		marchallObj(t, map[string]string{"username": std.Username, "password": "V3ry$ecret!"}))
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: code = %v; body = %s", rec.Code, rec.Body.String())
	}

	ns := ta.authenticator.Namespace(auth.RoleStudent)
	cookie := findCookie(rec, ns.Name())
	if cookie == nil {
		t.Fatalf("cookie %q not set", ns.Name())
	}
	if cookie.Value == "" {
		t.Error("cookie holds no credential")
	}
	if !cookie.HttpOnly {
		t.Error("cookie must be HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("cookie path = %q; want /", cookie.Path)
	}
	if want := int(time.Hour.Seconds()); cookie.MaxAge != want {
		t.Errorf("cookie max-age = %d; want %d", cookie.MaxAge, want)
	}
	if cookie.Secure {
		t.Error("cookie must not be Secure outside prod")
	}

	// the credential must pass verification and carry the student's identity
	claims, err := ta.authenticator.VerifyCredential(cookie.Value)
	if err != nil {
		t.Fatalf("VerifyCredential() failed: %v", err)
	}
	if claims.PrincipalID() != std.ID {
		t.Errorf("claims principal = %d; want %d", claims.PrincipalID(), std.ID)
	}
	if claims.Role != auth.RoleStudent {
		t.Errorf("claims role = %q; want %q", claims.Role, auth.RoleStudent)
	}
}

func Test_authApi_logout(t *testing.T) {
	ta := setup(t)
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	cookie := ta.getCookie(t, std.ID, auth.RoleStudent)

	req, rec := newAuthRequest(http.MethodPost, "/v1/students/logout", cookie)
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout failed: code = %v; body = %s", rec.Code, rec.Body.String())
	}

	ns := ta.authenticator.Namespace(auth.RoleStudent)
	cleared := findCookie(rec, ns.Name())
	if cleared == nil {
		t.Fatalf("cookie %q not cleared", ns.Name())
	}
	if cleared.MaxAge >= 0 || cleared.Value != "" {
		t.Errorf("cookie not expired: max-age = %d, value = %q", cleared.MaxAge, cleared.Value)
	}

	// revocation is client-side only: a replayed token is still honored
	// until its natural expiry
	req, rec = newAuthRequest(http.MethodGet, "/v1/student/profile", cookie)
	ta.app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("replayed token rejected: code = %v; body = %s", rec.Code, rec.Body.String())
	}
}

func Test_authApi_register(t *testing.T) {
	ta := setup(t)
	ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")

	tests := []httpTest{
		{
			name: "student registered", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Brian", "last_name": "Otieno",
				"username": "brianot", "email": "brian@darasa.test",
				"password": "S0mething&else", "password_confirm": "S0mething&else",
			}),
			wantCode: http.StatusCreated,
		},
		{
			name: "teacher registered", path: "/v1/teachers/register",
			body: marchallObj(t, map[string]string{
				"name": "Alan Kiptoo", "username": "alankip", "email": "alan@darasa.test",
				"password": "S0mething&else", "password_confirm": "S0mething&else",
			}),
			wantCode: http.StatusCreated,
		},
		{
			name: "admin registered", path: "/v1/admin/register",
			body: marchallObj(t, map[string]string{
				"username": "headmaster",
				"password": "S0mething&else", "password_confirm": "S0mething&else",
			}),
			wantCode: http.StatusCreated,
		},
		{
			name: "duplicate username", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Fake", "username": "naomich", "email": "other@darasa.test",
				"password": "S0mething&else", "password_confirm": "S0mething&else",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"username": account.ErrUsernameExists.Error()}),
		},
		{
			name: "duplicate email", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Fake", "username": "fakestd1", "email": "naomi@darasa.test",
				"password": "S0mething&else", "password_confirm": "S0mething&else",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": account.ErrEmailExists.Error()}),
		},
		{
			name: "password confirmation mismatch", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Fake", "username": "fakestd2", "email": "fake2@darasa.test",
				"password": "S0mething&else", "password_confirm": "S0mething&other",
			}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "weak password", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Fake", "username": "fakestd3", "email": "fake3@darasa.test",
				"password": "1234567890", "password_confirm": "1234567890",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be entirely numeric"}),
		},
		{
			name: "password too similar to username", path: "/v1/students/register",
			body: marchallObj(t, map[string]string{
				"first_name": "Fake", "username": "fakestd4", "email": "fake4@darasa.test",
				"password": "fakestd4!", "password_confirm": "fakestd4!",
			}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"password": "password cannot be similar to account attributes"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, tt.path, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_middleware_credentialChecks(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")

	studentCookie := ta.getCookie(t, std.ID, auth.RoleStudent)
	adminCookie := ta.getCookie(t, adm.ID, auth.RoleAdmin)

	// a student token placed in the admin namespace must not pass
	smuggled := &http.Cookie{Name: adminCookie.Name, Value: studentCookie.Value}

	tampered := &http.Cookie{Name: studentCookie.Name, Value: studentCookie.Value + "x"}

	// issue an already-expired credential, then restore the clock before
	// the server verifies it
	jwt.TimeFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := ta.authenticator.IssueCredential(std.ID, auth.RoleStudent)
	jwt.TimeFunc = time.Now
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}
	expired := &http.Cookie{Name: studentCookie.Name, Value: expiredToken}

	unauthorized := marchallObj(t, errUnauthorized)

	tests := []httpTest{
		{name: "no cookie", path: "/v1/student/profile", wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "admin cookie on student route", path: "/v1/student/profile", cookie: adminCookie, wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "student cookie on admin route", path: "/v1/students", cookie: studentCookie, wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "student token in admin namespace", path: "/v1/students", cookie: smuggled, wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "tampered token", path: "/v1/student/profile", cookie: tampered, wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "expired token", path: "/v1/student/profile", cookie: expired, wantCode: http.StatusUnauthorized, wantData: unauthorized},
		{name: "valid student cookie", path: "/v1/student/profile", cookie: studentCookie, wantCode: http.StatusOK, wantData: marchallObj(t, std)},
		{name: "valid admin cookie", path: "/v1/students", cookie: adminCookie, wantCode: http.StatusOK, wantData: marchallList(t, std)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.cookie)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
