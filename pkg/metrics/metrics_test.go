package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the default namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "sheetboard")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithSampleInterval(10*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.refreshes.WithLabelValues("tick", OutcomeSuccess).Inc()

			Convey("Then metric names carry the namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, mf := range families {
					if mf.GetName() == "test_namespace_test_subsystem_pfx_refreshes_total" {
						found = true
						So(mf.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithSampleInterval(0),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "sheetboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
				So(manager.sampleInterval, ShouldEqual, defaultSampleInterval)
			})
		})
	})
}

func TestRefreshMetrics(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When a refresh outcome is recorded", func() {
			counter := globalManager.refreshes.WithLabelValues("manual", OutcomeFetchError)
			before := testutil.ToFloat64(counter)
			RecordRefresh("manual", OutcomeFetchError)

			Convey("Then the counter advances by one", func() {
				So(testutil.ToFloat64(counter), ShouldEqual, before+1)
			})
		})

		Convey("When dropped rows are recorded", func() {
			counter := globalManager.rowsDropped.WithLabelValues("flat")
			before := testutil.ToFloat64(counter)
			RecordRowsDropped("flat", 3)
			RecordRowsDropped("flat", 0)

			Convey("Then only positive counts are added", func() {
				So(testutil.ToFloat64(counter), ShouldEqual, before+3)
			})
		})

		Convey("When a snapshot is published", func() {
			at := time.Unix(1_700_000_000, 0)
			UpdateSnapshot(7, 40, 5, 2, at)

			Convey("Then the gauges reflect it", func() {
				So(testutil.ToFloat64(globalManager.snapshotSequence), ShouldEqual, float64(7))
				So(testutil.ToFloat64(globalManager.snapshotEntries), ShouldEqual, float64(40))
				So(testutil.ToFloat64(globalManager.snapshotColleges), ShouldEqual, float64(5))
				So(testutil.ToFloat64(globalManager.snapshotPosters), ShouldEqual, float64(2))
				So(testutil.ToFloat64(globalManager.lastSuccessUnix), ShouldEqual, float64(1_700_000_000))
			})
		})

		Convey("When latency and size observations are made", func() {
			So(func() {
				RecordRefreshLatency(12)
				RecordFetchLatency("gviz", 8)
				RecordFetchBytes(2048)
				UpdateRowsFetched(30)
			}, ShouldNotPanic)
		})
	})
}

func TestHTTPAndErrorMetrics(t *testing.T) {
	Convey("Given HTTP and error helpers", t, func() {
		So(func() {
			RecordHTTPRequest("totals", "GET", "200")
			RecordHTTPRequestDuration("totals", "GET", "200", 1.5)
			RecordErrorByComponent("source", "fetch_error")
			RecordErrorByType("fetch_error", "high")
			RecordErrorByEndpoint("refresh", "POST", "server_error")
			RecordErrorLatency("http", "server_error", 3)
		}, ShouldNotPanic)

		Convey("Then the registry exposes them", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			var names []string
			for _, mf := range families {
				names = append(names, mf.GetName())
			}
			joined := strings.Join(names, ",")
			So(joined, ShouldContainSubstring, "sheetboard_scoreboard_http_requests_total")
			So(joined, ShouldContainSubstring, "sheetboard_scoreboard_errors_by_component_total")
		})
	})
}

func TestSystemSampler(t *testing.T) {
	Convey("Given a manager with a short sample interval", t, func() {
		manager := NewManager(WithSampleInterval(5*time.Millisecond), WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When the sampler runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			manager.RunSystemSampler(ctx)

			Convey("Then runtime gauges are populated", func() {
				So(testutil.ToFloat64(manager.systemGoroutineCount), ShouldBeGreaterThan, 0)
				So(testutil.ToFloat64(manager.systemMemoryUsage), ShouldBeGreaterThan, 0)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("Then the sampler returns without sampling", func() {
			manager.RunSystemSampler(context.Background())
			So(testutil.ToFloat64(manager.systemGoroutineCount), ShouldEqual, float64(0))
		})
	})
}

func TestDisabledMetrics(t *testing.T) {
	Convey("Given a disabled global manager", t, func() {
		saved := globalManager
		globalManager = NewManager(WithMetricsEnabled(false), WithPrometheusRegistry(prometheus.NewRegistry()))
		defer func() { globalManager = saved }()

		Convey("When recording", func() {
			RecordRefresh("tick", OutcomeSuccess)

			Convey("Then nothing is counted", func() {
				So(testutil.ToFloat64(globalManager.refreshes.WithLabelValues("tick", OutcomeSuccess)), ShouldEqual, float64(0))
			})
		})
	})
}
