package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/okian/matchdesk/internal/adapters/composer"
	"github.com/okian/matchdesk/internal/adapters/gateway"
	"github.com/okian/matchdesk/internal/adapters/repository"
	service "github.com/okian/matchdesk/internal/app"
	"github.com/okian/matchdesk/internal/domain/claim"
	"github.com/okian/matchdesk/internal/domain/display"
	"github.com/okian/matchdesk/internal/domain/model"
	"github.com/okian/matchdesk/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	operatorRole = model.Ref(10)
	judgeRole    = model.Ref(11)
	recorderRole = model.Ref(12)

	scheduleChannel     = model.Ref(20)
	resultsChannel      = model.Ref(21)
	notificationChannel = model.Ref(22)
	transcriptChannel   = model.Ref(23)
)

type fixture struct {
	svc    *service.Service
	gw     *gateway.MemGateway
	sess   service.Session
	cancel context.CancelFunc
}

func operatorSession() service.Session {
	return service.Session{
		GuildID:   1,
		Community: "go league",
		Actor: model.Actor{
			ID:    100,
			Name:  "operator",
			Roles: []model.Ref{operatorRole, judgeRole, recorderRole},
		},
	}
}

func startFixture(t *testing.T, opts ...service.Option) *fixture {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	gw := gateway.NewMemGateway()
	opts = append([]service.Option{
		service.WithGateway(gw),
		service.WithStore(repository.NewMemStore(ctx)),
		service.WithWorkerCount(2),
	}, opts...)

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		cancel()
		t.Fatalf("starting service: %v", err)
	}

	f := &fixture{svc: svc, gw: gw, sess: operatorSession(), cancel: cancel}
	t.Cleanup(func() {
		_ = svc.Stop(context.Background())
		cancel()
	})

	if err := svc.ConfigSet(ctx, f.sess, model.TenantConfig{
		OperatorRole:        operatorRole,
		JudgeRole:           judgeRole,
		RecorderRole:        recorderRole,
		ScheduleChannel:     scheduleChannel,
		ResultsChannel:      resultsChannel,
		NotificationChannel: notificationChannel,
		TranscriptChannel:   transcriptChannel,
	}); err != nil {
		t.Fatalf("setting config: %v", err)
	}
	return f
}

func (f *fixture) createEvent(t *testing.T) model.Event {
	t.Helper()

	e, err := f.svc.CreateEvent(context.Background(), f.sess, service.CreateEventRequest{
		Team1:      "Alpha",
		Team2:      "Beta",
		Time:       service.TimeInput{Day: "25", Month: "12", Year: "2025", Hour: "8", Minute: "30", Meridiem: "pm"},
		Tournament: "Winter Cup",
		Round:      "Quarterfinal",
	})
	if err != nil {
		t.Fatalf("creating event: %v", err)
	}
	return e
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func TestLifecycle(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		f := startFixture(t)

		Convey("Then starting again is refused", func() {
			So(errors.Is(f.svc.Start(ctx), service.ErrAlreadyStarted), ShouldBeTrue)
		})

		Convey("Then stats reflect the running state", func() {
			stats := f.svc.GetStats(ctx)
			So(stats.Started, ShouldBeTrue)
			So(stats.DeliveryWorkers, ShouldEqual, 2)
			So(stats.ClaimPolicy, ShouldEqual, "last_wins")
		})

		Convey("Then stopping twice is harmless", func() {
			So(f.svc.Stop(ctx), ShouldBeNil)
			So(f.svc.Stop(ctx), ShouldBeNil)
		})
	})
}

func TestConfigCommands(t *testing.T) {
	Convey("Given a configured community", t, func() {
		ctx := context.Background()
		f := startFixture(t)

		Convey("When the configuration is read back", func() {
			cfg, err := f.svc.Config(ctx, f.sess)
			So(err, ShouldBeNil)
			So(cfg.JudgeRole, ShouldEqual, judgeRole)
			So(cfg.GuildID, ShouldEqual, f.sess.GuildID)
		})

		Convey("When an empty edit is submitted", func() {
			err := f.svc.ConfigEdit(ctx, f.sess, model.TenantConfigPatch{})
			So(errors.Is(err, service.ErrNoChanges), ShouldBeTrue)
		})

		Convey("When one field is edited", func() {
			role := model.Ref(77)
			So(f.svc.ConfigEdit(ctx, f.sess, model.TenantConfigPatch{JudgeRole: &role}), ShouldBeNil)

			cfg, err := f.svc.Config(ctx, f.sess)
			So(err, ShouldBeNil)
			So(cfg.JudgeRole, ShouldEqual, model.Ref(77))
			So(cfg.RecorderRole, ShouldEqual, recorderRole)
		})

		Convey("When a community has no configuration", func() {
			other := f.sess
			other.GuildID = 2
			other.Community = "other league"

			_, err := f.svc.Config(ctx, other)
			So(errors.Is(err, repository.ErrConfigurationMissing), ShouldBeTrue)
		})
	})
}

func TestEventCreate(t *testing.T) {
	Convey("Given a configured community", t, func() {
		ctx := context.Background()
		f := startFixture(t)

		Convey("When an event is created", func() {
			e := f.createEvent(t)

			Convey("Then the stored document has identity and title", func() {
				So(e.ID, ShouldNotBeEmpty)
				So(e.Title, ShouldEqual, "Alpha vs Beta")
				So(e.Revision, ShouldEqual, 1)
				So(e.ScheduledText, ShouldEqual, "25/12/2025 8:30 PM")
			})

			Convey("Then the card is posted to the schedule channel", func() {
				msgs := f.gw.Messages(scheduleChannel)
				So(len(msgs), ShouldEqual, 1)
				So(msgs[0].Ref, ShouldEqual, e.MessageRef)
				So(msgs[0].Message.Card, ShouldNotBeNil)
				So(msgs[0].Message.Card.Title, ShouldEqual, ":calendar_spiral: Alpha vs Beta")
				So(msgs[0].Message.Card.Staffs, ShouldContainSubstring, "Awaiting selection")
			})

			Convey("Then the card carries a composed image", func() {
				msgs := f.gw.Messages(scheduleChannel)
				So(len(msgs), ShouldEqual, 1)
				So(msgs[0].Message.Attachment, ShouldNotBeNil)
				So(msgs[0].Message.Attachment.Name, ShouldEqual, "Alpha vs Beta.png")
				So(msgs[0].Message.Attachment.Data, ShouldNotBeEmpty)
			})

			Convey("Then notification and audit lines are delivered", func() {
				So(eventually(func() bool { return len(f.gw.Messages(notificationChannel)) == 1 }), ShouldBeTrue)
				So(f.gw.Messages(notificationChannel)[0].Message.Content, ShouldContainSubstring, "Alpha vs Beta")

				So(eventually(func() bool { return len(f.gw.Messages(transcriptChannel)) >= 1 }), ShouldBeTrue)
			})
		})

		Convey("When a thumbnail channel and logo are configured", func() {
			cards := composer.NewMemComposer()
			f := startFixture(t, service.WithComposer(cards))

			thumbChannel := model.Ref(24)
			logo := "https://cdn.example/logo.png"
			So(f.svc.ConfigEdit(ctx, f.sess, model.TenantConfigPatch{
				ThumbnailChannel: &thumbChannel,
				LogoRef:          &logo,
			}), ShouldBeNil)

			e := f.createEvent(t)
			So(cards.Renders(), ShouldEqual, 1)

			Convey("Then a copy of the card image lands in the thumbnail channel", func() {
				So(eventually(func() bool { return len(f.gw.Messages(thumbChannel)) == 1 }), ShouldBeTrue)
				p := f.gw.Messages(thumbChannel)[0]
				So(p.Message.Content, ShouldEqual, e.Title)
				So(p.Message.Attachment, ShouldNotBeNil)
				So(string(p.Message.Attachment.Data), ShouldContainSubstring, logo)
			})
		})

		Convey("When the image renderer is unavailable", func() {
			cards := composer.NewMemComposer()
			cards.SetUnavailable(true)
			f := startFixture(t, service.WithComposer(cards))

			e := f.createEvent(t)

			Convey("Then the card is posted without an attachment", func() {
				So(e.MessageRef, ShouldNotBeEmpty)
				msgs := f.gw.Messages(scheduleChannel)
				So(len(msgs), ShouldEqual, 1)
				So(msgs[0].Message.Attachment, ShouldBeNil)
			})
		})

		Convey("When the timestamp is malformed", func() {
			_, err := f.svc.CreateEvent(ctx, f.sess, service.CreateEventRequest{
				Team1: "Alpha",
				Team2: "Beta",
				Time:  service.TimeInput{Day: "31", Month: "2", Year: "2025", Hour: "8", Minute: "00"},
			})

			Convey("Then the create is rejected and nothing is posted", func() {
				So(err, ShouldNotBeNil)
				So(f.gw.Messages(scheduleChannel), ShouldBeEmpty)
			})
		})
	})
}

func TestEventEdit(t *testing.T) {
	Convey("Given a created event", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		Convey("When the remarks are edited", func() {
			before, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
			So(err, ShouldBeNil)

			remarks := "bring your own shuttles"
			updated, err := f.svc.EditEvent(ctx, f.sess, e.Title, service.EditEventRequest{
				Patch: model.EventPatch{Remarks: &remarks},
			})
			So(err, ShouldBeNil)

			Convey("Then the staffing field is byte-identical", func() {
				So(display.Render(updated).Staffs, ShouldEqual, display.Render(before).Staffs)
			})

			Convey("Then the posted card is edited in place", func() {
				p, ok := f.gw.Message(e.MessageRef)
				So(ok, ShouldBeTrue)
				So(p.Edits, ShouldEqual, 1)
				So(p.Message.Card.Remarks, ShouldEqual, remarks)
			})
		})

		Convey("When a team name is edited", func() {
			team := "Gamma"
			updated, err := f.svc.EditEvent(ctx, f.sess, e.Title, service.EditEventRequest{
				Patch: model.EventPatch{Team2: &team},
			})
			So(err, ShouldBeNil)

			Convey("Then the title is recomputed and becomes the lookup key", func() {
				So(updated.Title, ShouldEqual, "Alpha vs Gamma")

				_, _, err := f.svc.ShowEvent(ctx, f.sess, "Alpha vs Gamma")
				So(err, ShouldBeNil)
			})
		})

		Convey("When the timestamp is edited", func() {
			updated, err := f.svc.EditEvent(ctx, f.sess, e.Title, service.EditEventRequest{
				Time: &service.TimeInput{Day: "26", Month: "12", Year: "2025", Hour: "18", Minute: "00"},
			})
			So(err, ShouldBeNil)
			So(updated.ScheduledText, ShouldEqual, "26/12/2025 18:00")
		})

		Convey("When the patch is empty", func() {
			_, err := f.svc.EditEvent(ctx, f.sess, e.Title, service.EditEventRequest{})
			So(errors.Is(err, service.ErrNoChanges), ShouldBeTrue)
		})

		Convey("When the event does not exist", func() {
			remarks := "x"
			_, err := f.svc.EditEvent(ctx, f.sess, "No vs Body", service.EditEventRequest{
				Patch: model.EventPatch{Remarks: &remarks},
			})
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestEventDelete(t *testing.T) {
	Convey("Given a created event", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		Convey("When a delete is staged and confirmed", func() {
			token, staged, err := f.svc.DeleteEvent(ctx, f.sess, e.Title, "double booked")
			So(err, ShouldBeNil)
			So(staged.ID, ShouldEqual, e.ID)

			deleted, err := f.svc.ConfirmDelete(ctx, f.sess, token)
			So(err, ShouldBeNil)
			So(deleted.ID, ShouldEqual, e.ID)

			Convey("Then the event and its card are gone", func() {
				_, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(f.gw.Messages(scheduleChannel), ShouldBeEmpty)
			})

			Convey("Then the transcript records the reason", func() {
				So(eventually(func() bool {
					for _, p := range f.gw.Messages(transcriptChannel) {
						if strings.Contains(p.Message.Content, "Reason: double booked") {
							return true
						}
					}
					return false
				}), ShouldBeTrue)
			})

			Convey("Then the token is single use", func() {
				_, err := f.svc.ConfirmDelete(ctx, f.sess, token)
				So(errors.Is(err, service.ErrUnknownConfirmation), ShouldBeTrue)
			})
		})

		Convey("When the confirmation comes from another user", func() {
			token, _, err := f.svc.DeleteEvent(ctx, f.sess, e.Title, "")
			So(err, ShouldBeNil)

			other := f.sess
			other.Actor = model.Actor{ID: 200, Name: "intruder", Roles: []model.Ref{judgeRole}}

			_, err = f.svc.ConfirmDelete(ctx, other, token)
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)

			Convey("And the event survives", func() {
				_, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the token is unknown", func() {
			_, err := f.svc.ConfirmDelete(ctx, f.sess, "bogus")
			So(errors.Is(err, service.ErrUnknownConfirmation), ShouldBeTrue)
		})

		Convey("When the token has expired", func() {
			g := startFixture(t, service.WithConfirmTTL(time.Nanosecond))
			ev := g.createEvent(t)

			token, _, err := g.svc.DeleteEvent(ctx, g.sess, ev.Title, "")
			So(err, ShouldBeNil)

			time.Sleep(time.Millisecond)
			_, err = g.svc.ConfirmDelete(ctx, g.sess, token)
			So(errors.Is(err, service.ErrConfirmationExpired), ShouldBeTrue)
		})
	})
}

func TestOperatorGate(t *testing.T) {
	Convey("Given a configured community and a role-less user", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		outsider := f.sess
		outsider.Actor = model.Actor{ID: 666, Name: "drifter"}

		Convey("Then event creation is refused", func() {
			_, err := f.svc.CreateEvent(ctx, outsider, service.CreateEventRequest{
				Team1: "Gamma",
				Team2: "Delta",
				Time:  service.TimeInput{Day: "26", Month: "12", Year: "2025", Hour: "18", Minute: "00"},
			})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
			So(len(f.gw.Messages(scheduleChannel)), ShouldEqual, 1)
		})

		Convey("Then event editing is refused", func() {
			remarks := "tampered"
			_, err := f.svc.EditEvent(ctx, outsider, e.Title, service.EditEventRequest{
				Patch: model.EventPatch{Remarks: &remarks},
			})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("Then a delete cannot even be staged", func() {
			_, _, err := f.svc.DeleteEvent(ctx, outsider, e.Title, "")
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)

			got, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
			So(err, ShouldBeNil)
			So(got.Title, ShouldEqual, e.Title)
		})

		Convey("Then config edits are refused", func() {
			role := model.Ref(99)
			err := f.svc.ConfigEdit(ctx, outsider, model.TenantConfigPatch{JudgeRole: &role})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("Then config.set requires holding the operator role being assigned", func() {
			err := f.svc.ConfigSet(ctx, outsider, model.TenantConfig{OperatorRole: operatorRole})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})
	})
}

func TestClaims(t *testing.T) {
	Convey("Given a created event", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		judge := f.sess
		judge.Actor = model.Actor{ID: 300, Name: "judge-a", Roles: []model.Ref{judgeRole}}

		Convey("When an eligible staff member claims the judge slot", func() {
			d, updated, err := f.svc.Claim(ctx, judge, e.Title, "judge")
			So(err, ShouldBeNil)

			Convey("Then the slot is assigned and the card refreshed", func() {
				So(d.Displaced, ShouldBeFalse)
				So(updated.Judge, ShouldEqual, model.Ref(300))
				So(updated.Recorder.IsSet(), ShouldBeFalse)

				p, ok := f.gw.Message(e.MessageRef)
				So(ok, ShouldBeTrue)
				So(p.Message.Card.Staffs, ShouldContainSubstring, "<@300>")
			})

			Convey("And a later claim displaces the holder", func() {
				rival := f.sess
				rival.Actor = model.Actor{ID: 301, Name: "judge-b", Roles: []model.Ref{judgeRole}}

				d2, updated2, err := f.svc.Claim(ctx, rival, e.Title, "judge")
				So(err, ShouldBeNil)
				So(d2.Displaced, ShouldBeTrue)
				So(d2.Previous, ShouldEqual, model.Ref(300))
				So(updated2.Judge, ShouldEqual, model.Ref(301))
			})

			Convey("And re-claiming your own slot is a no-op accept", func() {
				d2, updated2, err := f.svc.Claim(ctx, judge, e.Title, "judge")
				So(err, ShouldBeNil)
				So(d2.Displaced, ShouldBeFalse)
				So(updated2.Judge, ShouldEqual, model.Ref(300))
			})
		})

		Convey("When the requester lacks the slot role", func() {
			outsider := f.sess
			outsider.Actor = model.Actor{ID: 400, Name: "fan", Roles: nil}

			_, _, err := f.svc.Claim(ctx, outsider, e.Title, "judge")
			So(errors.Is(err, claim.ErrForbidden), ShouldBeTrue)

			Convey("Then the event is untouched", func() {
				got, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
				So(err, ShouldBeNil)
				So(got.Judge.IsSet(), ShouldBeFalse)
			})
		})

		Convey("When the same interaction is delivered twice", func() {
			judge.InteractionID = "interaction-1"

			_, _, err := f.svc.Claim(ctx, judge, e.Title, "judge")
			So(err, ShouldBeNil)

			_, _, err = f.svc.Claim(ctx, judge, e.Title, "judge")
			So(errors.Is(err, service.ErrDuplicateInteraction), ShouldBeTrue)
		})

		Convey("When a failed claim recorded an interaction", func() {
			outsider := f.sess
			outsider.Actor = model.Actor{ID: 400, Name: "fan", Roles: nil}
			outsider.InteractionID = "interaction-2"

			_, _, err := f.svc.Claim(ctx, outsider, e.Title, "judge")
			So(errors.Is(err, claim.ErrForbidden), ShouldBeTrue)

			Convey("Then the same interaction may retry after a role grant", func() {
				outsider.Actor.Roles = []model.Ref{judgeRole}

				_, updated, err := f.svc.Claim(ctx, outsider, e.Title, "judge")
				So(err, ShouldBeNil)
				So(updated.Judge, ShouldEqual, model.Ref(400))
			})
		})

		Convey("When the slot name is unknown", func() {
			_, _, err := f.svc.Claim(ctx, judge, e.Title, "referee")
			So(errors.Is(err, claim.ErrUnknownSlot), ShouldBeTrue)
		})
	})

	Convey("Given a first-wins community", t, func() {
		ctx := context.Background()
		f := startFixture(t, service.WithClaimPolicy("first_wins"))
		e := f.createEvent(t)

		first := f.sess
		first.Actor = model.Actor{ID: 300, Name: "judge-a", Roles: []model.Ref{judgeRole}}
		second := f.sess
		second.Actor = model.Actor{ID: 301, Name: "judge-b", Roles: []model.Ref{judgeRole}}

		_, _, err := f.svc.Claim(ctx, first, e.Title, "judge")
		So(err, ShouldBeNil)

		Convey("Then a second claim is rejected and the holder kept", func() {
			_, _, err := f.svc.Claim(ctx, second, e.Title, "judge")
			So(errors.Is(err, claim.ErrSlotHeld), ShouldBeTrue)

			got, _, err := f.svc.ShowEvent(ctx, f.sess, e.Title)
			So(err, ShouldBeNil)
			So(got.Judge, ShouldEqual, model.Ref(300))
		})

		Convey("Then the holder may re-claim their own slot", func() {
			_, updated, err := f.svc.Claim(ctx, first, e.Title, "judge")
			So(err, ShouldBeNil)
			So(updated.Judge, ShouldEqual, model.Ref(300))
		})
	})
}

func TestResults(t *testing.T) {
	Convey("Given a created event", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		Convey("When an operator records a result with extra evidence", func() {
			rec, err := f.svc.RecordResult(ctx, f.sess, service.ResultRequest{
				EventTitle: e.Title,
				Team1Score: 3,
				Team2Score: 1,
				MatchCount: 4,
				Evidence:   []string{"https://img/1.png", "https://img/2.png", "https://img/3.png"},
			})
			So(err, ShouldBeNil)
			So(rec.EventID, ShouldEqual, e.ID)

			Convey("Then the evidence message precedes the results card", func() {
				msgs := f.gw.Messages(resultsChannel)
				So(len(msgs), ShouldEqual, 2)
				So(msgs[0].Message.Content, ShouldContainSubstring, "https://img/2.png")
				So(msgs[0].Message.Content, ShouldContainSubstring, "https://img/3.png")
				So(msgs[1].Message.Results, ShouldNotBeNil)
				So(msgs[1].Message.Results.Results, ShouldContainSubstring, ":trophy: Alpha (3)")
				So(msgs[1].Message.Results.ImageURL, ShouldEqual, "https://img/1.png")
			})

			Convey("And re-submission appends a second record", func() {
				_, err := f.svc.RecordResult(ctx, f.sess, service.ResultRequest{
					EventTitle: e.Title,
					Team1Score: 2,
					Team2Score: 2,
				})
				So(err, ShouldBeNil)

				recs, err := f.svc.ListResults(ctx, f.sess, e.Title)
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].Team1Score, ShouldEqual, 3)
			})
		})

		Convey("When a non-operator records a result", func() {
			judge := f.sess
			judge.Actor = model.Actor{ID: 300, Name: "judge-a", Roles: []model.Ref{judgeRole}}

			_, err := f.svc.RecordResult(ctx, judge, service.ResultRequest{EventTitle: e.Title})
			So(errors.Is(err, service.ErrForbidden), ShouldBeTrue)
		})

		Convey("When too many evidence images are attached", func() {
			evidence := make([]string, 10)
			for i := range evidence {
				evidence[i] = "https://img/x.png"
			}

			_, err := f.svc.RecordResult(ctx, f.sess, service.ResultRequest{
				EventTitle: e.Title,
				Evidence:   evidence,
			})
			So(errors.Is(err, service.ErrTooManyImages), ShouldBeTrue)
		})
	})
}

func TestStaffAndRegistration(t *testing.T) {
	Convey("Given a configured community", t, func() {
		ctx := context.Background()
		f := startFixture(t)
		e := f.createEvent(t)

		judge := f.sess
		judge.Actor = model.Actor{ID: 300, Name: "judge-a", Roles: []model.Ref{judgeRole}}
		_, _, err := f.svc.Claim(ctx, judge, e.Title, "judge")
		So(err, ShouldBeNil)

		Convey("Then the judge's history lists the event", func() {
			events, err := f.svc.StaffHistory(ctx, judge, 0)
			So(err, ShouldBeNil)
			So(len(events), ShouldEqual, 1)
			So(events[0].Title, ShouldEqual, e.Title)
		})

		Convey("Then another staff member has no history", func() {
			events, err := f.svc.StaffHistory(ctx, f.sess, model.Ref(999))
			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})

		Convey("Then staff data and registrations are accepted", func() {
			So(f.svc.SubmitStaff(ctx, judge, service.StaffRequest{
				GameName: "Valorant",
				GameID:   "judge#1234",
				Username: "judge-a",
			}), ShouldBeNil)

			So(f.svc.Register(ctx, judge, service.RegistrationRequest{
				GameID:  "judge#1234",
				Payload: "team Alpha, substitute",
			}), ShouldBeNil)
		})
	})
}
