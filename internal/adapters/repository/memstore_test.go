package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/matchdesk/internal/adapters/repository"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/internal/domain/tenant"
	. "github.com/smartystreets/goconvey/convey"
)

func newEvent(title, team1, team2 string) model.Event {
	return model.Event{
		Title:       title,
		Team1:       team1,
		Team2:       team2,
		ScheduledAt: time.Date(2025, 12, 25, 20, 30, 0, 0, time.UTC),
	}
}

func TestConfigLifecycle(t *testing.T) {
	Convey("Given a fresh namespace", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		Convey("Then GetConfig reports a missing configuration", func() {
			_, err := ns.GetConfig(ctx)
			So(errors.Is(err, repository.ErrConfigurationMissing), ShouldBeTrue)
		})

		Convey("And PatchConfig refuses to patch nothing", func() {
			err := ns.PatchConfig(ctx, model.TenantConfigPatch{})
			So(errors.Is(err, repository.ErrConfigurationMissing), ShouldBeTrue)
		})

		Convey("When a configuration is upserted", func() {
			cfg := model.TenantConfig{GuildID: 1, OperatorRole: 10, JudgeRole: 11}
			So(ns.UpsertConfig(ctx, cfg), ShouldBeNil)

			Convey("Then it can be read back", func() {
				got, err := ns.GetConfig(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, cfg)
			})

			Convey("And upsert is idempotent", func() {
				So(ns.UpsertConfig(ctx, cfg), ShouldBeNil)
				got, err := ns.GetConfig(ctx)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, cfg)
			})

			Convey("And PatchConfig merges only set fields", func() {
				role := model.Ref(99)
				So(ns.PatchConfig(ctx, model.TenantConfigPatch{JudgeRole: &role}), ShouldBeNil)

				got, err := ns.GetConfig(ctx)
				So(err, ShouldBeNil)
				So(got.JudgeRole, ShouldEqual, model.Ref(99))
				So(got.OperatorRole, ShouldEqual, model.Ref(10))
			})
		})
	})
}

func TestEventCRUD(t *testing.T) {
	Convey("Given a namespace with one event", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx, repository.WithCapacityHint(8))
		ns := store.Namespace(tenant.Key("alpha_1"))

		id, err := ns.CreateEvent(ctx, newEvent("A vs B", "A", "B"))
		So(err, ShouldBeNil)
		So(id, ShouldNotBeEmpty)

		Convey("Then the event is readable with revision 1", func() {
			got, err := ns.GetEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, id)
			So(got.Revision, ShouldEqual, 1)
		})

		Convey("Then a missing title returns ErrNotFound", func() {
			_, err := ns.GetEvent(ctx, "X vs Y")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("When mutating the event", func() {
			got, err := ns.MutateEvent(ctx, "A vs B", func(e *model.Event) error {
				e.Remarks = "updated"
				return nil
			})

			Convey("Then the revision is bumped", func() {
				So(err, ShouldBeNil)
				So(got.Remarks, ShouldEqual, "updated")
				So(got.Revision, ShouldEqual, 2)
			})
		})

		Convey("When a mutation fails", func() {
			boom := errors.New("boom")
			_, err := ns.MutateEvent(ctx, "A vs B", func(e *model.Event) error {
				e.Remarks = "half-applied"
				return boom
			})

			Convey("Then the document is untouched", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
				got, err := ns.GetEvent(ctx, "A vs B")
				So(err, ShouldBeNil)
				So(got.Remarks, ShouldEqual, "")
				So(got.Revision, ShouldEqual, 1)
			})
		})

		Convey("When deleting the event", func() {
			doc, err := ns.DeleteEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(doc.ID, ShouldEqual, id)

			Convey("Then a subsequent get returns ErrNotFound", func() {
				_, err := ns.GetEvent(ctx, "A vs B")
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Then CountEvents spans namespaces", func() {
			other := store.Namespace(tenant.Key("beta_2"))
			_, err := other.CreateEvent(ctx, newEvent("C vs D", "C", "D"))
			So(err, ShouldBeNil)
			So(store.CountEvents(ctx), ShouldEqual, 2)
		})
	})
}

func TestTitleShadowing(t *testing.T) {
	Convey("Given two events with colliding titles", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		first := newEvent("A vs B", "A", "B")
		first.Remarks = "first"
		id1, err := ns.CreateEvent(ctx, first)
		So(err, ShouldBeNil)

		second := newEvent("A vs B", "A", "B")
		second.Remarks = "second"
		id2, err := ns.CreateEvent(ctx, second)
		So(err, ShouldBeNil)
		So(id2, ShouldNotEqual, id1)

		Convey("Then lookups resolve to the later create", func() {
			got, err := ns.GetEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, id2)
			So(got.Remarks, ShouldEqual, "second")
		})

		Convey("Then delete removes the shadowing document first", func() {
			doc, err := ns.DeleteEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(doc.ID, ShouldEqual, id2)

			got, err := ns.GetEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, id1)
		})

		Convey("Then both documents appear in the list", func() {
			events, err := ns.ListEvents(ctx)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 2)
		})
	})
}

func TestDisplayRevisionGuard(t *testing.T) {
	Convey("Given an event id", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		Convey("When revisions arrive in order", func() {
			ok, err := ns.AdvanceDisplayRevision(ctx, "ev-1", 1)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = ns.AdvanceDisplayRevision(ctx, "ev-1", 2)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("When a stale revision arrives after a newer one", func() {
			_, err := ns.AdvanceDisplayRevision(ctx, "ev-1", 5)
			So(err, ShouldBeNil)

			ok, err := ns.AdvanceDisplayRevision(ctx, "ev-1", 4)
			So(err, ShouldBeNil)

			Convey("Then the stale push is refused", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When the same revision is pushed twice", func() {
			_, err := ns.AdvanceDisplayRevision(ctx, "ev-1", 3)
			So(err, ShouldBeNil)

			ok, err := ns.AdvanceDisplayRevision(ctx, "ev-1", 3)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestAppendOnlyCollections(t *testing.T) {
	Convey("Given a namespace", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		Convey("When appending results for the same event twice", func() {
			rec1 := model.ResultRecord{EventTitle: "A vs B", Team1Score: 3, Team2Score: 1}
			rec2 := model.ResultRecord{EventTitle: "A vs B", Team1Score: 2, Team2Score: 2}
			So(ns.AppendResult(ctx, rec1), ShouldBeNil)
			So(ns.AppendResult(ctx, rec2), ShouldBeNil)

			Convey("Then both records exist in order", func() {
				recs, err := ns.ListResults(ctx, "A vs B")
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].Team1Score, ShouldEqual, 3)
				So(recs[1].Team2Score, ShouldEqual, 2)
			})

			Convey("And records for other events are excluded", func() {
				recs, err := ns.ListResults(ctx, "X vs Y")
				So(err, ShouldBeNil)
				So(recs, ShouldBeEmpty)
			})
		})

		Convey("When appending staff submissions and registrations", func() {
			So(ns.AppendStaffSubmission(ctx, model.StaffSubmission{GameID: "g-1"}), ShouldBeNil)
			So(ns.AppendRegistration(ctx, model.Registration{UserID: 5, GameID: "g-2"}), ShouldBeNil)
		})
	})
}

func TestEventsJudgedBy(t *testing.T) {
	Convey("Given events with judged slots", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		a := newEvent("A vs B", "A", "B")
		a.Judge = model.Ref(7)
		_, err := ns.CreateEvent(ctx, a)
		So(err, ShouldBeNil)

		b := newEvent("C vs D", "C", "D")
		_, err = ns.CreateEvent(ctx, b)
		So(err, ShouldBeNil)

		c := newEvent("E vs F", "E", "F")
		c.Judge = model.Ref(7)
		_, err = ns.CreateEvent(ctx, c)
		So(err, ShouldBeNil)

		Convey("Then only that judge's events are returned, in order", func() {
			events, err := ns.EventsJudgedBy(ctx, model.Ref(7))
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 2)
			So(events[0].Title, ShouldEqual, "A vs B")
			So(events[1].Title, ShouldEqual, "E vs F")
		})
	})
}

func TestClosedStore(t *testing.T) {
	Convey("Given a closed store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))
		So(store.Close(), ShouldBeNil)

		Convey("Then mutations fail with ErrClosed", func() {
			_, err := ns.CreateEvent(ctx, newEvent("A vs B", "A", "B"))
			So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)

			So(errors.Is(ns.UpsertConfig(ctx, model.TenantConfig{}), repository.ErrClosed), ShouldBeTrue)
			So(errors.Is(ns.AppendResult(ctx, model.ResultRecord{}), repository.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestConcurrentMutations(t *testing.T) {
	Convey("Given concurrent claims against one event", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore(ctx)
		ns := store.Namespace(tenant.Key("alpha_1"))

		_, err := ns.CreateEvent(ctx, newEvent("A vs B", "A", "B"))
		So(err, ShouldBeNil)

		const writers = 16
		var wg sync.WaitGroup
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(staff model.Ref) {
				defer wg.Done()
				_, _ = ns.MutateEvent(ctx, "A vs B", func(e *model.Event) error {
					e.Judge = staff
					return nil
				})
			}(model.Ref(100 + i))
		}
		wg.Wait()

		Convey("Then every mutation was serialized", func() {
			got, err := ns.GetEvent(ctx, "A vs B")
			So(err, ShouldBeNil)
			So(got.Revision, ShouldEqual, uint64(1+writers))
			So(got.Judge, ShouldBeGreaterThanOrEqualTo, model.Ref(100))
		})
	})
}
