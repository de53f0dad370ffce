package repository_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/okian/sheetboard/internal/adapters/repository"
	"github.com/okian/sheetboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func view(seq uint64) *repository.View {
	return &repository.View{Snapshot: &model.Snapshot{Seq: seq}}
}

func TestSnapshotStore(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new store", t, func() {
		s := repository.NewSnapshotStore()

		Convey("Then it serves an empty, non-nil view", func() {
			v := s.Load()
			So(v, ShouldNotBeNil)
			So(v.Seq(), ShouldEqual, uint64(0))
			So(v.Totals, ShouldNotBeNil)
			So(v.Totals, ShouldBeEmpty)
			So(v.Posters, ShouldResemble, []string{})
			So(v.Snapshot.Entries, ShouldBeEmpty)
			So(s.PublishedAt().IsZero(), ShouldBeTrue)
		})

		Convey("When publishing a newer view", func() {
			err := s.Publish(ctx, view(3))

			Convey("Then it becomes current", func() {
				So(err, ShouldBeNil)
				So(s.Load().Seq(), ShouldEqual, uint64(3))
				So(s.PublishedAt().IsZero(), ShouldBeFalse)
			})

			Convey("Then an older or equal view is rejected", func() {
				So(errors.Is(s.Publish(ctx, view(2)), repository.ErrStaleSnapshot), ShouldBeTrue)
				So(errors.Is(s.Publish(ctx, view(3)), repository.ErrStaleSnapshot), ShouldBeTrue)
				So(s.Load().Seq(), ShouldEqual, uint64(3))
			})
		})

		Convey("When publishing nothing", func() {
			Convey("Then it is refused", func() {
				So(s.Publish(ctx, nil), ShouldEqual, repository.ErrNilSnapshot)
				So(s.Publish(ctx, &repository.View{}), ShouldEqual, repository.ErrNilSnapshot)
			})
		})
	})

	Convey("Given many concurrent publishers and readers", t, func() {
		s := repository.NewSnapshotStore()
		const n = 200

		var g errgroup.Group
		for i := 1; i <= n; i++ {
			seq := uint64(i)
			g.Go(func() error {
				err := s.Publish(ctx, view(seq))
				if err != nil && !errors.Is(err, repository.ErrStaleSnapshot) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				if s.Load() == nil {
					return errors.New("nil view")
				}
				return nil
			})
		}

		Convey("Then the highest seq ends up published", func() {
			So(g.Wait(), ShouldBeNil)
			So(s.Load().Seq(), ShouldEqual, uint64(n))
		})
	})
}
