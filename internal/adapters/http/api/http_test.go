package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/activities/internal/adapters/http/api"
	service "github.com/okian/activities/internal/app"
	"github.com/okian/activities/internal/domain/model"
	"github.com/okian/activities/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

type listing map[string]model.ActivityView

func newMux() (*http.ServeMux, http.Handler) {
	svc := service.New()
	server := api.NewServer(svc, svc)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux, server.Wrap(mux)
}

func do(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	So(json.Unmarshal(w.Body.Bytes(), &v), ShouldBeNil)
	return v
}

func participantCount(h http.Handler, activity string) int {
	w := do(h, http.MethodGet, "/activities")
	So(w.Code, ShouldEqual, http.StatusOK)
	return len(decode[listing](w)[activity].Participants)
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		_, h := newMux()

		Convey("When getting /activities", func() {
			w := do(h, http.MethodGet, "/activities")

			Convey("Then every activity should be listed with participants", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				data := decode[map[string]map[string]any](w)
				So(data, ShouldContainKey, "Basketball Team")
				for _, fields := range data {
					So(fields, ShouldContainKey, "description")
					So(fields, ShouldContainKey, "schedule")
					So(fields, ShouldContainKey, "max_participants")
					So(fields, ShouldContainKey, "participants")
				}
			})
		})

		Convey("When getting the root", func() {
			w := do(h, http.MethodGet, "/")

			Convey("Then it should redirect to the landing page", func() {
				So(w.Code, ShouldEqual, http.StatusTemporaryRedirect)
				So(w.Header().Get("Location"), ShouldEqual, "/static/index.html")
			})
		})

		Convey("When getting /healthz", func() {
			w := do(h, http.MethodGet, "/healthz")

			Convey("Then it should report ok with the activity count", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode[map[string]any](w)
				So(body["status"], ShouldEqual, "ok")
				So(body["activities"], ShouldEqual, 9.0)
			})
		})

		Convey("When getting /metrics after some traffic", func() {
			do(h, http.MethodGet, "/activities")
			w := do(h, http.MethodGet, "/metrics")

			Convey("Then the exposition should include HTTP metrics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "activities_http_requests_total")
			})
		})

		Convey("When getting /stats", func() {
			w := do(h, http.MethodGet, "/stats")

			Convey("Then registry totals should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				body := decode[map[string]any](w)
				So(body["activities"], ShouldEqual, 9.0)
				So(body, ShouldContainKey, "spots_left")
			})
		})

		Convey("When requesting an unknown path", func() {
			w := do(h, http.MethodGet, "/unknown")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When using the wrong method on a route", func() {
			w := do(h, http.MethodGet, "/activities/Chess%20Club/signup?email=a@x.com")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When a request id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/activities", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "req-123")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then it should be echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "req-123")
			})
		})

		Convey("When no request id is supplied", func() {
			w := do(h, http.MethodGet, "/activities")

			Convey("Then one should be generated", func() {
				So(len(w.Header().Get(api.RequestIDHeader)), ShouldEqual, 36)
			})
		})
	})
}

func TestActivitiesHandler_Signup(t *testing.T) {
	Convey("Given a fresh API server", t, func() {
		_, h := newMux()
		initial := participantCount(h, "Basketball Team")

		Convey("When signing up a new email", func() {
			w := do(h, http.MethodPost, "/activities/Basketball%20Team/signup?email=test@example.com")

			Convey("Then it should succeed and add exactly one participant", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](w)["message"], ShouldContainSubstring, "Signed up test@example.com for Basketball Team")
				So(participantCount(h, "Basketball Team"), ShouldEqual, initial+1)
				So(decode[listing](do(h, http.MethodGet, "/activities"))["Basketball Team"].Participants, ShouldContain, "test@example.com")
			})

			Convey("And signing up the same email again should fail with 400", func() {
				w := do(h, http.MethodPost, "/activities/Basketball%20Team/signup?email=test@example.com")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](w)["detail"], ShouldContainSubstring, "Student already signed up")
				So(participantCount(h, "Basketball Team"), ShouldEqual, initial+1)
			})
		})

		Convey("When signing up for an unknown activity", func() {
			w := do(h, http.MethodPost, "/activities/Invalid%20Activity/signup?email=test@example.com")

			Convey("Then it should fail with 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[map[string]string](w)["detail"], ShouldEqual, "Activity not found")
				So(participantCount(h, "Basketball Team"), ShouldEqual, initial)
			})
		})

		Convey("When the activity name differs only in case", func() {
			w := do(h, http.MethodPost, "/activities/basketball%20team/signup?email=test@example.com")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the email parameter is missing", func() {
			w := do(h, http.MethodPost, "/activities/Basketball%20Team/signup")

			Convey("Then it should fail with 422 and not touch the registry", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decode[map[string]string](w)["detail"], ShouldEqual, "email query parameter is required")
				So(participantCount(h, "Basketball Team"), ShouldEqual, initial)
			})
		})
	})
}

func TestActivitiesHandler_Unregister(t *testing.T) {
	Convey("Given an API server where Tennis Club has an extra participant", t, func() {
		_, h := newMux()
		w := do(h, http.MethodPost, "/activities/Tennis%20Club/signup?email=unregister@example.com")
		So(w.Code, ShouldEqual, http.StatusOK)
		initial := participantCount(h, "Tennis Club")

		Convey("When unregistering that participant", func() {
			w := do(h, http.MethodDelete, "/activities/Tennis%20Club/unregister?email=unregister@example.com")

			Convey("Then it should succeed and remove exactly one participant", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]string](w)["message"], ShouldContainSubstring, "Unregistered unregister@example.com from Tennis Club")
				So(participantCount(h, "Tennis Club"), ShouldEqual, initial-1)
				So(decode[listing](do(h, http.MethodGet, "/activities"))["Tennis Club"].Participants, ShouldNotContain, "unregister@example.com")
			})
		})

		Convey("When unregistering an email that is not signed up", func() {
			snapshot := do(h, http.MethodGet, "/activities").Body.String()
			w := do(h, http.MethodDelete, "/activities/Basketball%20Team/unregister?email=notsignedup@example.com")

			Convey("Then it should fail with 400 and leave the listing unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](w)["detail"], ShouldContainSubstring, "Student not signed up")
				So(do(h, http.MethodGet, "/activities").Body.String(), ShouldEqual, snapshot)
			})
		})

		Convey("When unregistering from an unknown activity", func() {
			snapshot := do(h, http.MethodGet, "/activities").Body.String()
			w := do(h, http.MethodDelete, "/activities/Invalid%20Activity/unregister?email=test@example.com")
			wCase := do(h, http.MethodDelete, "/activities/tennis%20club/unregister?email=unregister@example.com")

			Convey("Then it should fail with 404 and leave the listing unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decode[map[string]string](w)["detail"], ShouldContainSubstring, "Activity not found")
				So(wCase.Code, ShouldEqual, http.StatusNotFound)
				So(participantCount(h, "Tennis Club"), ShouldEqual, initial)
				So(do(h, http.MethodGet, "/activities").Body.String(), ShouldEqual, snapshot)
			})
		})

		Convey("When the email parameter is missing", func() {
			w := do(h, http.MethodDelete, "/activities/Tennis%20Club/unregister")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})
	})
}

func TestActivitiesHandler_Get(t *testing.T) {
	Convey("Given an API server", t, func() {
		_, h := newMux()

		Convey("When getting a single activity", func() {
			w := do(h, http.MethodGet, "/activities/Chess%20Club")

			Convey("Then its view should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				view := decode[model.ActivityView](w)
				So(view.MaxParticipants, ShouldEqual, 12)
				So(view.Participants, ShouldResemble, []string{"michael@mergington.edu", "daniel@mergington.edu"})
			})
		})

		Convey("When getting an unknown activity", func() {
			w := do(h, http.MethodGet, "/activities/Nope")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[map[string]string](w)["detail"], ShouldEqual, "Activity not found")
		})
	})
}

type failingDeps struct{}

func (failingDeps) List(context.Context) map[string]model.Activity { return nil }
func (failingDeps) Get(context.Context, string) (model.Activity, error) {
	return model.Activity{}, errors.New("disk on fire")
}
func (failingDeps) Signup(context.Context, string, string) (string, error) {
	return "", errors.New("disk on fire")
}
func (failingDeps) Unregister(context.Context, string, string) (string, error) {
	return "", errors.New("disk on fire")
}
func (failingDeps) Count(context.Context) int { return 0 }

type staticStats map[string]interface{}

func (s staticStats) GetStats() map[string]interface{} { return s }

func TestActivitiesHandler_UnexpectedErrors(t *testing.T) {
	Convey("Given dependencies that fail with unknown errors", t, func() {
		server := api.NewServer(failingDeps{}, staticStats{}, api.WithLandingPage("/static/home.html"))
		mux := http.NewServeMux()
		server.Register(context.Background(), mux)

		Convey("When signing up", func() {
			w := do(mux, http.MethodPost, "/activities/Chess%20Club/signup?email=a@x.com")

			Convey("Then a 500 should hide the cause", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode[map[string]string](w)["detail"], ShouldEqual, "Internal Server Error")
				So(w.Body.String(), ShouldNotContainSubstring, "disk on fire")
			})
		})

		Convey("When listing with no activities", func() {
			w := do(mux, http.MethodGet, "/activities")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "{}\n")
		})

		Convey("When the landing page is customised", func() {
			w := do(mux, http.MethodGet, "/")
			So(w.Header().Get("Location"), ShouldEqual, "/static/home.html")
		})
	})

	Convey("Given a nil mux", t, func() {
		server := api.NewServer(failingDeps{}, staticStats{})
		So(func() { server.Register(context.Background(), nil) }, ShouldPanic)
	})
}
