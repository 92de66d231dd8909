/*
Package latch provides a one-shot, thread-safe completion signal.

A Latch is settled at most once, either with a value (Complete) or with an
error (Fail); whichever happens first wins permanently and all later attempts
to settle are ignored. Any number of goroutines may wait on a latch, before
or after settlement, via Wait or the Done channel.

Latches back every terminal signal in the streaming packages: close
notifications, write acknowledgements, and pipe handoffs.

Basic usage:

	l := latch.New[int]()

	go func() {
		l.Complete(42)
	}()

	v, err := l.Wait(ctx)

A latch is strictly weaker than a general future: it carries no combinators,
no chaining and no executor. Callers compose timeouts and cancellation with
contexts instead.
*/
package latch
