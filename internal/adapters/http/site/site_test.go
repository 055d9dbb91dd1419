package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site handler", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		get := func(path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("Then /static/index.html should be served without a redirect", func() {
			w := get("/static/index.html")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "signup-form")
		})

		Convey("And the directory should serve the same page", func() {
			w := get("/static/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "Extracurricular Activities")
		})

		Convey("And scripts and styles should be served", func() {
			js := get("/static/app.js")
			So(js.Code, ShouldEqual, http.StatusOK)
			So(js.Body.String(), ShouldContainSubstring, "/activities")

			css := get("/static/styles.css")
			So(css.Code, ShouldEqual, http.StatusOK)
			So(css.Header().Get("Content-Type"), ShouldContainSubstring, "text/css")
		})

		Convey("And unknown assets should be 404", func() {
			So(get("/static/missing.png").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And the root should not be handled by the site", func() {
			So(get("/").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteErrors(t *testing.T) {
	Convey("Given site error constants", t, func() {
		So(ErrServe, ShouldNotBeNil)
		So(ErrServe.Error(), ShouldEqual, "landing site serve failed")
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() { Register(context.Background(), nil) }, ShouldPanic)
	})
}
