package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/matchdesk/internal/adapters/gateway"
	"github.com/okian/matchdesk/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func delivery(content string) queue.Delivery {
	return queue.Delivery{
		Kind:    queue.KindAudit,
		Channel: 42,
		Message: gateway.Message{Content: content},
	}
}

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an outbox with room", t, func() {
		ctx := context.Background()
		o := queue.NewInMemoryOutbox(queue.WithCapacity(4))

		Convey("When deliveries are enqueued", func() {
			So(o.Enqueue(ctx, delivery("first")), ShouldBeTrue)
			So(o.Enqueue(ctx, delivery("second")), ShouldBeTrue)
			So(o.Len(ctx), ShouldEqual, 2)

			Convey("Then they come out in order with a timestamp", func() {
				out := o.Dequeue(ctx)

				d := <-out
				So(d.Message.Content, ShouldEqual, "first")
				So(d.EnqueuedAt.IsZero(), ShouldBeFalse)

				d = <-out
				So(d.Message.Content, ShouldEqual, "second")
			})
		})
	})
}

func TestCapacityLimit(t *testing.T) {
	Convey("Given a full outbox", t, func() {
		ctx := context.Background()
		o := queue.NewInMemoryOutbox(queue.WithCapacity(1))
		So(o.Enqueue(ctx, delivery("only")), ShouldBeTrue)

		Convey("Then further enqueues are dropped", func() {
			So(o.Enqueue(ctx, delivery("overflow")), ShouldBeFalse)
			So(o.Len(ctx), ShouldEqual, 1)
		})
	})
}

func TestClosedOutbox(t *testing.T) {
	Convey("Given a closed outbox", t, func() {
		ctx := context.Background()
		o := queue.NewInMemoryOutbox(queue.WithCapacity(4))
		So(o.Enqueue(ctx, delivery("pending")), ShouldBeTrue)
		So(o.Close(), ShouldBeNil)

		Convey("Then enqueue is refused", func() {
			So(o.Enqueue(ctx, delivery("late")), ShouldBeFalse)
			So(o.IsClosed(), ShouldBeTrue)
		})

		Convey("Then pending deliveries drain before the channel closes", func() {
			out := o.Dequeue(ctx)

			d, ok := <-out
			So(ok, ShouldBeTrue)
			So(d.Message.Content, ShouldEqual, "pending")

			select {
			case _, ok := <-out:
				So(ok, ShouldBeFalse)
			case <-time.After(time.Second):
				t.Fatal("dequeue channel did not close")
			}
		})

		Convey("Then closing twice is a no-op", func() {
			So(o.Close(), ShouldBeNil)
		})
	})
}
