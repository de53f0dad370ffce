package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/sheetboard/internal/adapters/http/api"
	"github.com/okian/sheetboard/internal/adapters/source"
	"github.com/okian/sheetboard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDeps struct {
	totals     []types.CollegeTotal
	matrix     types.Matrix
	posters    []string
	categories []string
	category   string
	readErr    error
	refreshErr error
	refreshes  int
}

func (m *mockDeps) GetTotals(context.Context) ([]types.CollegeTotal, error) {
	return m.totals, m.readErr
}

func (m *mockDeps) GetMatrix(_ context.Context, category string) (types.Matrix, error) {
	m.category = category
	return m.matrix, m.readErr
}

func (m *mockDeps) GetPosterURLs(context.Context) ([]string, error) { return m.posters, m.readErr }

func (m *mockDeps) GetCategories(context.Context) ([]string, error) { return m.categories, m.readErr }

func (m *mockDeps) Refresh(context.Context) error {
	m.refreshes++
	return m.refreshErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"seq": 4}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then the health endpoint serves Prometheus metrics", func() {
			w := do(mux, http.MethodGet, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "sheetboard_scoreboard_")
		})

		Convey("Then the stats endpoint returns JSON", func() {
			w := do(mux, http.MethodGet, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")
			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["seq"], ShouldEqual, float64(4))
		})

		Convey("Then read endpoints reject other methods", func() {
			for _, path := range []string{"/totals", "/matrix?category=x", "/posters", "/categories", "/stats"} {
				So(do(mux, http.MethodPost, path).Code, ShouldEqual, http.StatusNotFound)
			}
			So(do(mux, http.MethodGet, "/refresh").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestTotalsHandler(t *testing.T) {
	Convey("Given a service with totals", t, func() {
		deps := &mockDeps{totals: []types.CollegeTotal{
			{Rank: 1, College: "Beta", Points: 30},
			{Rank: 2, College: "Alpha", Points: 15},
		}}
		mux := newMux(deps)

		Convey("When requesting GET /totals", func() {
			w := do(mux, http.MethodGet, "/totals")

			Convey("Then the ranked list is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var got []types.CollegeTotal
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, deps.totals)
			})
		})

		Convey("When the read fails", func() {
			deps.readErr = errors.New("boom")
			w := do(mux, http.MethodGet, "/totals")

			Convey("Then it is an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decodeError(w)["code"], ShouldEqual, "internal_error")
			})
		})
	})
}

func TestMatrixHandler(t *testing.T) {
	Convey("Given a service with a matrix", t, func() {
		deps := &mockDeps{matrix: types.Matrix{
			Category: "Music",
			Events:   []string{"Choir"},
			Colleges: []string{"A", "B"},
			Points:   [][]int{{5, 0}},
		}}
		mux := newMux(deps)

		Convey("When requesting a category", func() {
			w := do(mux, http.MethodGet, "/matrix?category=Music")

			Convey("Then the matrix is returned for it", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.category, ShouldEqual, "Music")
				var got types.Matrix
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, deps.matrix)
			})
		})

		Convey("When the category is missing or blank", func() {
			Convey("Then it is a bad request", func() {
				for _, target := range []string{"/matrix", "/matrix?category=", "/matrix?category=%20"} {
					w := do(mux, http.MethodGet, target)
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(decodeError(w)["code"], ShouldEqual, "bad_request")
				}
			})
		})

		Convey("When the service rejects the category", func() {
			deps.readErr = fmt.Errorf("wrapped: %w", types.ErrEmptyCategory)

			Convey("Then it is a bad request", func() {
				So(do(mux, http.MethodGet, "/matrix?category=x").Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestGalleryHandler(t *testing.T) {
	Convey("Given a service with posters and categories", t, func() {
		deps := &mockDeps{
			posters:    []string{"https://drive.google.com/thumbnail?id=x&sz=w1000"},
			categories: []string{"Sports", "Music"},
		}
		mux := newMux(deps)

		Convey("Then GET /posters lists the URLs", func() {
			w := do(mux, http.MethodGet, "/posters")
			So(w.Code, ShouldEqual, http.StatusOK)
			var got []string
			So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
			So(got, ShouldResemble, deps.posters)
		})

		Convey("Then GET /categories lists the categories", func() {
			w := do(mux, http.MethodGet, "/categories")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "[\"Sports\",\"Music\"]\n")
		})
	})

	Convey("Given a service with nothing loaded", t, func() {
		mux := newMux(&mockDeps{})

		Convey("Then the lists are empty arrays, not null", func() {
			So(do(mux, http.MethodGet, "/posters").Body.String(), ShouldEqual, "[]\n")
			So(do(mux, http.MethodGet, "/categories").Body.String(), ShouldEqual, "[]\n")
			So(do(mux, http.MethodGet, "/totals").Body.String(), ShouldEqual, "[]\n")
		})
	})
}

func TestRefreshHandler(t *testing.T) {
	Convey("Given a refresh endpoint", t, func() {
		deps := &mockDeps{}
		mux := newMux(deps)

		Convey("When the refresh succeeds", func() {
			w := do(mux, http.MethodPost, "/refresh")

			Convey("Then it is accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.refreshes, ShouldEqual, 1)
			})
		})

		Convey("When a refresh is already running", func() {
			deps.refreshErr = types.ErrRefreshInProgress
			w := do(mux, http.MethodPost, "/refresh")

			Convey("Then it is a conflict", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decodeError(w)["code"], ShouldEqual, "refresh_in_progress")
			})
		})

		Convey("When the sheet cannot be fetched or parsed", func() {
			Convey("Then it is a bad gateway", func() {
				for _, err := range []error{
					&source.FetchError{URL: "u", StatusCode: 500},
					fmt.Errorf("refresh 2: %w", &source.ParseError{Reason: "bad"}),
					fmt.Errorf("refresh 3: %w", types.ErrSourceFetch),
				} {
					deps.refreshErr = err
					w := do(mux, http.MethodPost, "/refresh")
					So(w.Code, ShouldEqual, http.StatusBadGateway)
					So(decodeError(w)["code"], ShouldEqual, "upstream_error")
				}
			})
		})

		Convey("When something else fails", func() {
			deps.refreshErr = errors.New("boom")

			Convey("Then it is an internal error", func() {
				So(do(mux, http.MethodPost, "/refresh").Code, ShouldEqual, http.StatusInternalServerError)
			})
		})
	})
}

func TestError(t *testing.T) {
	Convey("Given a wrapped API error", t, func() {
		cause := errors.New("missing category")
		err := api.WrapKind("api.get_matrix", api.ErrBadRequest, cause)

		Convey("Then it matches both its kind and its cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.get_matrix: bad request: missing category")
		})

		Convey("Then kind-only and internal errors read naturally", func() {
			So(api.NewKind("op", api.ErrConflict).Error(), ShouldEqual, "op: conflict")
			So(errors.Is(api.Wrap("op", cause), api.ErrInternal), ShouldBeTrue)
		})
	})
}
