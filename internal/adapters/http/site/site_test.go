package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a registered site", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		get := func(method, path string) *httptest.ResponseRecorder {
			req := httptest.NewRequest(method, path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w
		}

		Convey("Then / serves the scoreboard page", func() {
			w := get(http.MethodGet, "/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, `id="totals"`)
			So(w.Body.String(), ShouldContainSubstring, `src="/app.js"`)
		})

		Convey("Then the page assets are served", func() {
			w := get(http.MethodGet, "/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "/matrix?category=")
			So(get(http.MethodGet, "/style.css").Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then unknown files are not found", func() {
			So(get(http.MethodGet, "/missing.png").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then writes are not served", func() {
			So(get(http.MethodPost, "/").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then registering panics", func() {
			So(func() { Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
