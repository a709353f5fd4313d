// Package broadcast fans values out to many subscribers without ever
// blocking the publisher.
//
//	b := broadcast.NewMemoryBroadcaster[Event](64)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	go func() {
//	    for ev := range sub.C() {
//	        handle(ev)
//	    }
//	}()
//
//	_, _ = b.Publish(ctx, ev)
//
// A subscriber whose buffer is full misses the value and its Dropped counter
// grows; it stays subscribed. Subscriptions end when their context is done,
// when Close is called on them, or when the broadcaster is closed.
//
// The statemachine package publishes transition records through a
// Broadcaster with NewFeedExtension.
package broadcast
