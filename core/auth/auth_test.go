package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/darasahq/darasa/core"
)

func testConfig() *core.Config {
	conf := &core.Config{
		Debug:     true,
		AppName:   "Darasa",
		SecretKey: []byte("test-secret"),
	}
	conf.Server.JWTExpirationDelta = time.Hour
	return conf
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(testConfig())
	if err != nil {
		t.Fatalf("NewAuthenticator() failed: %v", err)
	}
	return a
}

func TestNewAuthenticator_failsClosedWithoutSecret(t *testing.T) {
	conf := testConfig()
	conf.SecretKey = nil
	if _, err := NewAuthenticator(conf); err == nil {
		t.Fatal("NewAuthenticator() accepted an empty secret")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	a := newTestAuthenticator(t)

	for _, role := range allRoles {
		t.Run(string(role), func(t *testing.T) {
			token, err := a.IssueCredential(42, role, Profile{Username: "alice"})
			if err != nil {
				t.Fatalf("IssueCredential() failed: %v", err)
			}

			claims, err := a.VerifyCredential(token)
			if err != nil {
				t.Fatalf("VerifyCredential() failed: %v", err)
			}
			if claims.Role != role {
				t.Errorf("Role = %q, want %q", claims.Role, role)
			}
			if claims.PrincipalID() != 42 {
				t.Errorf("PrincipalID() = %d, want 42", claims.PrincipalID())
			}
			if claims.Username != "alice" {
				t.Errorf("Username = %q, want alice", claims.Username)
			}
			if err := a.Authorize(claims, role); err != nil {
				t.Errorf("Authorize(%q) = %v, want nil", role, err)
			}
		})
	}
}

func TestVerifyCredential_failureKinds(t *testing.T) {
	a := newTestAuthenticator(t)

	valid, err := a.IssueCredential(1, RoleStudent)
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}

	// flip one bit in the signature segment
	tampered := []byte(valid)
	tampered[len(tampered)-1] ^= 0x01

	// signed with a different secret
	otherConf := testConfig()
	otherConf.SecretKey = []byte("other-secret")
	other, _ := NewAuthenticator(otherConf)
	foreign, err := other.IssueCredential(1, RoleStudent)
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}

	// expired but correctly signed
	jwt.TimeFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := a.IssueCredential(1, RoleStudent)
	jwt.TimeFunc = time.Now // reset
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}

	// valid signature, unrecognized role claim
	unknownRole := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   "1",
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
		Role: Role("superuser"),
	})
	unknownRoleToken, err := unknownRole.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() failed: %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", token: "", wantErr: ErrMissingCredential},
		{name: "garbage", token: "not.a.jwt", wantErr: ErrInvalidSignature},
		{name: "tampered signature", token: string(tampered), wantErr: ErrInvalidSignature},
		{name: "wrong secret", token: foreign, wantErr: ErrInvalidSignature},
		{name: "expired", token: expired, wantErr: ErrExpired},
		{name: "unknown role", token: unknownRoleToken, wantErr: ErrUnknownRole},
		{name: "valid", token: valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.VerifyCredential(tt.token); err != tt.wantErr {
				t.Errorf("VerifyCredential() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthorize_rolesAreDisjoint(t *testing.T) {
	a := newTestAuthenticator(t)

	for _, issued := range allRoles {
		token, err := a.IssueCredential(7, issued)
		if err != nil {
			t.Fatalf("IssueCredential() failed: %v", err)
		}
		claims, err := a.VerifyCredential(token)
		if err != nil {
			t.Fatalf("VerifyCredential() failed: %v", err)
		}

		// any-authenticated always allows
		if err := a.Authorize(claims, ""); err != nil {
			t.Errorf("Authorize(%q, any) = %v, want nil", issued, err)
		}

		for _, required := range allRoles {
			err := a.Authorize(claims, required)
			if issued == required && err != nil {
				t.Errorf("Authorize(%q, %q) = %v, want nil", issued, required, err)
			}
			if issued != required && err != ErrWrongRole {
				t.Errorf("Authorize(%q, %q) = %v, want ErrWrongRole", issued, required, err)
			}
		}
	}
}

func TestNamespace_cookieLifecycle(t *testing.T) {
	a := newTestAuthenticator(t)

	wantNames := map[Role]string{
		RoleAdmin:   "darasa_admin_token",
		RoleTeacher: "darasa_teacher_token",
		RoleStudent: "darasa_student_token",
	}

	for role, wantName := range wantNames {
		ns := a.Namespace(role)
		if ns.Name() != wantName {
			t.Errorf("Namespace(%q).Name() = %q, want %q", role, ns.Name(), wantName)
		}

		cookie := ns.Cookie("tok")
		if !cookie.HttpOnly || cookie.Path != "/" || cookie.MaxAge != 3600 {
			t.Errorf("Cookie() flags = HttpOnly:%v Path:%q MaxAge:%d, want HttpOnly Path=/ MaxAge=3600",
				cookie.HttpOnly, cookie.Path, cookie.MaxAge)
		}

		cleared := ns.Clear()
		if cleared.MaxAge != -1 || cleared.Value != "" {
			t.Errorf("Clear() = MaxAge:%d Value:%q, want expired empty cookie", cleared.MaxAge, cleared.Value)
		}

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ns.Token(req); err != ErrMissingCredential {
			t.Errorf("Token() without cookie error = %v, want ErrMissingCredential", err)
		}
		req.AddCookie(&http.Cookie{Name: wantName, Value: "tok"})
		if got, err := ns.Token(req); err != nil || got != "tok" {
			t.Errorf("Token() = %q, %v, want tok, nil", got, err)
		}
	}
}

// Logout only clears the client-side cookie; a copied token remains valid
// until natural expiry. This documents the accepted no-server-side-revocation
// limitation.
func TestRevocationIsClientSideOnly(t *testing.T) {
	a := newTestAuthenticator(t)

	token, err := a.IssueCredential(3, RoleStudent)
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}
	ns := a.Namespace(RoleStudent)
	_ = ns.Clear() // simulates logout

	claims, err := a.VerifyCredential(token)
	if err != nil {
		t.Fatalf("VerifyCredential() after logout = %v, want still valid", err)
	}
	if claims.Role != RoleStudent {
		t.Errorf("Role = %q, want student", claims.Role)
	}
}

func TestIssueCredential_subjectIsDecimalID(t *testing.T) {
	a := newTestAuthenticator(t)
	token, err := a.IssueCredential(123, RoleAdmin)
	if err != nil {
		t.Fatalf("IssueCredential() failed: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("token is not a compact JWT: %q", token)
	}
	claims, err := a.VerifyCredential(token)
	if err != nil {
		t.Fatalf("VerifyCredential() failed: %v", err)
	}
	if claims.Subject != "123" {
		t.Errorf("Subject = %q, want \"123\"", claims.Subject)
	}
}
