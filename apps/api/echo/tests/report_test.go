package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/notify"
	"github.com/darasahq/darasa/core/report"
	emailsvc "github.com/darasahq/darasa/services/email"
)

func Test_reportApi(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	other := ta.createStudent(t, "Brian", "Otieno", "brianot", "brian@darasa.test")
	studentCookie := ta.getCookie(t, std.ID, auth.RoleStudent)
	otherCookie := ta.getCookie(t, other.ID, auth.RoleStudent)

	payload := report.NewReport{
		Title: "Broken projector", Body: "The projector in room 4 has been out for a week.",
		CourseName: "Algebra",
	}

	var created report.Report
	t.Run("student files a report", func(t *testing.T) {
		sent := len(emailsvc.SentMessages)

		req, rec := newAuthRequest(http.MethodPost, "/v1/reports", studentCookie, marchallObj(t, payload))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &created)
		if created.StudentID != std.ID {
			t.Errorf("student_id = %d; want %d", created.StudentID, std.ID)
		}

		// filing notifies and mails the admins
		notifs, err := ta.notifySvc.QueryUnread(context.Background(), adm.ID, auth.RoleAdmin)
		if err != nil {
			t.Fatalf("QueryUnread() failed: %v", err)
		}
		if len(notifs) != 1 {
			t.Errorf("got %d admin notifications; want 1", len(notifs))
		}
		if got := len(emailsvc.SentMessages); got != sent+1 {
			t.Errorf("got %d sent mails; want %d", got, sent+1)
		}
	})

	t.Run("student lists own reports", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports", studentCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}, rec)
	})

	t.Run("reports are not visible to other students", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/reports", otherCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("other students cannot amend it", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/reports/%d", created.ID), otherCookie, marchallObj(t, payload))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("owner amends the report", func(t *testing.T) {
		upd := payload
		upd.Title = "Broken projector in room 4"
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/reports/%d", created.ID), studentCookie, marchallObj(t, upd))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &created)
		if created.Title != "Broken projector in room 4" {
			t.Errorf("title = %q", created.Title)
		}
	})

	t.Run("owner withdraws the report", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/reports/%d", created.ID), studentCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}

		// soft delete: gone from listings
		req, rec = newAuthRequest(http.MethodGet, "/v1/reports", studentCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

		// and cannot be amended anymore
		req, rec = newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/reports/%d", created.ID), studentCookie, marchallObj(t, payload))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_reportApi_notifications(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	adminCookie := ta.getCookie(t, adm.ID, auth.RoleAdmin)
	studentCookie := ta.getCookie(t, std.ID, auth.RoleStudent)

	if err := ta.notifySvc.Notify(context.Background(), adm.ID, auth.RoleAdmin, "Student \"naomich\" has filed a report."); err != nil {
		t.Fatalf("Notify() failed: %v", err)
	}

	var feed []notify.Notification
	t.Run("admin reads the unread feed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &feed)
		if len(feed) != 1 {
			t.Fatalf("got %d notifications; want 1", len(feed))
		}
		if feed[0].Read {
			t.Error("notification already marked read")
		}
	})

	t.Run("feeds are per principal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", studentCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	// admins, teachers and students draw ids from independent sequences, so
	// a student can legitimately share the admin's numeric id
	collidingCookie := ta.getCookie(t, adm.ID, auth.RoleStudent)

	t.Run("a student sharing the admin's id does not see the admin feed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/notifications", collidingCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("only the recipient can mark it read", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/notifications/%d/read", feed[0].ID), collidingCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

		otherAdm := ta.createAdmin(t, "deputy")
		req, rec = newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/notifications/%d/read", feed[0].ID), ta.getCookie(t, otherAdm.ID, auth.RoleAdmin))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})

	t.Run("mark read removes it from the unread feed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/notifications/%d/read", feed[0].ID), adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var got notify.Notification
		decodeBody(t, rec, &got)
		if !got.Read {
			t.Error("notification not marked read")
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/notifications", adminCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)
	})

	t.Run("mark read on unknown id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/notifications/999/read", adminCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}
