package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/account"
	"github.com/darasahq/darasa/core/auth"
)

func Test_accountApi_adminManagement(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	tch1 := ta.createTeacher(t, "Alan Kiptoo", "alankip", "alan@darasa.test")
	tch2 := ta.createTeacher(t, "Grace Wanjiru", "gracewa", "grace@darasa.test")
	std1 := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	std2 := ta.createStudent(t, "Brian", "Otieno", "brianot", "brian@darasa.test")

	adminCookie := ta.getCookie(t, adm.ID, auth.RoleAdmin)

	tests := []httpTest{
		{name: "list teachers", method: http.MethodGet, path: "/v1/teachers", wantData: marchallList(t, tch1, tch2)},
		{name: "list students", method: http.MethodGet, path: "/v1/students", wantData: marchallList(t, std1, std2)},
		{name: "retrieve teacher", method: http.MethodGet, path: fmt.Sprintf("/v1/teachers/%d", tch1.ID), wantData: marchallObj(t, tch1)},
		{name: "retrieve student", method: http.MethodGet, path: fmt.Sprintf("/v1/students/%d", std1.ID), wantData: marchallObj(t, std1)},
		{
			name: "retrieve unknown teacher", method: http.MethodGet, path: "/v1/teachers/999",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "non-numeric id", method: http.MethodGet, path: "/v1/teachers/lol",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "update teacher", method: http.MethodPut, path: fmt.Sprintf("/v1/teachers/%d", tch1.ID),
			body: marchallObj(t, map[string]string{"designation": "Head of Sciences"}),
		},
		{
			name: "update teacher email conflict", method: http.MethodPut, path: fmt.Sprintf("/v1/teachers/%d", tch1.ID),
			body:     marchallObj(t, map[string]string{"email": "grace@darasa.test"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": account.ErrEmailExists.Error()}),
		},
		{
			name: "update student profile as admin", method: http.MethodPut, path: fmt.Sprintf("/v1/students/%d", std1.ID),
			body: marchallObj(t, map[string]string{"phone": "+254700000001"}),
		},
	}
	for _, tt := range tests {
		tt.cookie = adminCookie
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.cookie, tt.body)
			ta.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// bulk delete takes repeated id query params
	t.Run("delete students", func(t *testing.T) {
		path := fmt.Sprintf("/v1/students?id=%d&id=%d", std1.ID, std2.ID)
		req, rec := newAuthRequest(http.MethodDelete, path, adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
		if _, err := ta.accountSvc.GetStudentByID(context.Background(), std1.ID); err != account.ErrNotFound {
			t.Errorf("student %d not deleted: %v", std1.ID, err)
		}
	})

	t.Run("delete teachers ignores junk ids", func(t *testing.T) {
		path := fmt.Sprintf("/v1/teachers?id=%d&id=lol", tch2.ID)
		req, rec := newAuthRequest(http.MethodDelete, path, adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v", rec.Code, http.StatusNoContent)
		}
		if _, err := ta.accountSvc.GetTeacherByID(context.Background(), tch2.ID); err != account.ErrNotFound {
			t.Errorf("teacher %d not deleted: %v", tch2.ID, err)
		}
	})
}

func Test_accountApi_selfService(t *testing.T) {
	ta := setup(t)
	tch := ta.createTeacher(t, "Alan Kiptoo", "alankip", "alan@darasa.test")
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	other := ta.createStudent(t, "Brian", "Otieno", "brianot", "brian@darasa.test")

	teacherCookie := ta.getCookie(t, tch.ID, auth.RoleTeacher)
	studentCookie := ta.getCookie(t, std.ID, auth.RoleStudent)

	t.Run("teacher profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/teacher/profile", teacherCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, tch)}, rec)
	})

	t.Run("student profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/profile", studentCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, std)}, rec)
	})

	t.Run("student updates own profile", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"present_address": "Moi Avenue, Nairobi"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/student/profile", studentCookie, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}

		var updated account.Student
		decodeBody(t, rec, &updated)
		if updated.ID != std.ID {
			t.Errorf("updated id = %d; want %d", updated.ID, std.ID)
		}
		if updated.PresentAddress != "Moi Avenue, Nairobi" {
			t.Errorf("present_address = %q", updated.PresentAddress)
		}
		// untouched fields keep their values
		if updated.FirstName != std.FirstName || updated.Email != std.Email {
			t.Error("unrelated fields were clobbered")
		}
	})

	t.Run("email conflict on self update", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": other.Email})
		req, rec := newAuthRequest(http.MethodPut, "/v1/student/profile", studentCookie, body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": account.ErrEmailExists.Error()}),
		}, rec)
	})

	t.Run("teacher cannot reach student profile", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/student/profile", teacherCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)}, rec)
	})
}
