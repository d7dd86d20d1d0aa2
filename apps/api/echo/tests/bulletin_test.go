package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/darasahq/darasa/core/auth"
	"github.com/darasahq/darasa/core/bulletin"
)

func Test_bulletinApi_announcements(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	std := ta.createStudent(t, "Naomi", "Chebet", "naomich", "naomi@darasa.test")
	adminCookie := ta.getCookie(t, adm.ID, auth.RoleAdmin)
	studentCookie := ta.getCookie(t, std.ID, auth.RoleStudent)

	var created bulletin.Announcement
	t.Run("admin publishes an announcement", func(t *testing.T) {
		body := marchallObj(t, bulletin.NewAnnouncement{Heading: "Mid-term break", Body: "School closes Friday."})
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", adminCookie, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &created)

		// publishing lands in the admin notification feed
		notifs, err := ta.notifySvc.QueryUnread(context.Background(), adm.ID, auth.RoleAdmin)
		if err != nil {
			t.Fatalf("QueryUnread() failed: %v", err)
		}
		if len(notifs) != 1 {
			t.Errorf("got %d notifications; want 1", len(notifs))
		}
	})

	t.Run("students read announcements", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/announcements", studentCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}, rec)
	})

	t.Run("students cannot publish", func(t *testing.T) {
		body := marchallObj(t, bulletin.NewAnnouncement{Heading: "Party", Body: "Tonight!"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", studentCookie, body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)}, rec)
	})

	t.Run("admin amends an announcement", func(t *testing.T) {
		body := marchallObj(t, bulletin.NewAnnouncement{Heading: "Mid-term break", Body: "School closes Thursday."})
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/announcements/%d", created.ID), adminCookie, body)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var got bulletin.Announcement
		decodeBody(t, rec, &got)
		if got.Body != "School closes Thursday." {
			t.Errorf("body = %q", got.Body)
		}
	})

	t.Run("admin removes an announcement", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/announcements/%d", created.ID), adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("amend unknown announcement", func(t *testing.T) {
		body := marchallObj(t, bulletin.NewAnnouncement{Heading: "Ghost", Body: "Boo."})
		req, rec := newAuthRequest(http.MethodPut, "/v1/announcements/999", adminCookie, body)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_bulletinApi_events(t *testing.T) {
	ta := setup(t)
	adm := ta.createAdmin(t, "headmaster")
	tch := ta.createTeacher(t, "Alan Kiptoo", "alankip", "alan@darasa.test")
	adminCookie := ta.getCookie(t, adm.ID, auth.RoleAdmin)
	teacherCookie := ta.getCookie(t, tch.ID, auth.RoleTeacher)

	eventDate := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	payload := bulletin.NewEvent{
		Name: "Science fair", Description: "Annual projects exhibition.",
		EventDate: eventDate, EventPlace: "Main hall",
	}

	var created bulletin.Event
	t.Run("admin schedules an event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", adminCookie, marchallObj(t, payload))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &created)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", adminCookie,
			marchallObj(t, bulletin.NewEvent{Name: "Half-baked"}))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("teachers read events", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/events", teacherCookie)
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}, rec)
	})

	t.Run("teachers cannot schedule events", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", teacherCookie, marchallObj(t, payload))
		ta.app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errUnauthorized)}, rec)
	})

	t.Run("admin reschedules an event", func(t *testing.T) {
		upd := payload
		upd.EventPlace = "Sports ground"
		req, rec := newAuthRequest(http.MethodPut, fmt.Sprintf("/v1/events/%d", created.ID), adminCookie, marchallObj(t, upd))
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var got bulletin.Event
		decodeBody(t, rec, &got)
		if got.EventPlace != "Sports ground" {
			t.Errorf("event_place = %q", got.EventPlace)
		}
	})

	t.Run("admin cancels an event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, fmt.Sprintf("/v1/events/%d", created.ID), adminCookie)
		ta.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})
}
