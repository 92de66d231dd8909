package stream_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/vnykmshr/streamio/internal/testutil"
	sioerrors "github.com/vnykmshr/streamio/pkg/common/errors"
	"github.com/vnykmshr/streamio/pkg/streaming/stream"
)

func TestBlockingDrainClosesOnce(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewCountingCloser(strings.NewReader("abcdefgh"))
	r, err := stream.NewBlocking(src, 3)
	testutil.AssertNoError(t, err)

	got, err := testutil.Drain[byte](ctx, r, 3)
	testutil.AssertNoError(t, err)
	if !bytes.Equal(got, []byte("abcdefgh")) {
		t.Fatalf("got %q, want %q", got, "abcdefgh")
	}

	testutil.AssertEqual(t, src.CloseCount(), 1)

	// EOF is idempotent and never touches the source again.
	_, err = r.Read(ctx, 3)
	testutil.AssertEqual(t, err, io.EOF)
	testutil.AssertEqual(t, src.CloseCount(), 1)

	reason, err := r.OnClose().Wait(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, reason, stream.FullyRead)
}

func TestBlockingDiscardBeforeReadClosesOnce(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewCountingCloser(strings.NewReader("abc"))
	r, err := stream.NewBlocking(src, 4)
	testutil.AssertNoError(t, err)

	r.Discard()
	r.Discard() // idempotent

	testutil.AssertEqual(t, src.CloseCount(), 1)

	_, err = r.Read(ctx, 4)
	if !errors.Is(err, sioerrors.ErrDiscarded) {
		t.Fatalf("got %v, want ErrDiscarded", err)
	}

	reason, err := r.OnClose().Wait(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, reason, stream.Discarded)
}

func TestBlockingDiscardAfterEOFIsNoop(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewCountingCloser(strings.NewReader("a"))
	r, err := stream.NewBlocking(src, 4)
	testutil.AssertNoError(t, err)

	_, err = testutil.Drain[byte](ctx, r, 4)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, src.CloseCount(), 1)

	r.Discard()
	testutil.AssertEqual(t, src.CloseCount(), 1)

	reason, _ := r.OnClose().Wait(ctx)
	testutil.AssertEqual(t, reason, stream.FullyRead)
}

func TestBlockingSourceFailureSticky(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	boom := errors.New("disk on fire")
	src := testutil.NewCountingCloser(testutil.NewFlakyReader([]byte("xy"), boom))
	r, err := stream.NewBlocking(src, 8)
	testutil.AssertNoError(t, err)

	chunk, err := r.Read(ctx, 8)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(chunk), 2)

	// The failing read surfaces the source error; later reads repeat it.
	for i := 0; i < 3; i++ {
		_, err = r.Read(ctx, 8)
		if !errors.Is(err, boom) {
			t.Fatalf("read %d: got %v, want %v", i, err, boom)
		}
	}

	testutil.AssertEqual(t, src.CloseCount(), 1)

	// Failure is distinct from both termination reasons.
	if r.OnClose().Settled() {
		t.Fatal("OnClose must not settle on failure")
	}
}

func TestBlockingDiscardFailsOutstandingRead(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewGatedReader([]byte("payload"))
	r, err := stream.NewBlocking(src, 4)
	testutil.AssertNoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := r.Read(ctx, 4)
		errCh <- err
	}()

	// Wait until the read is parked in the fetch; an overlapping read is
	// rejected rather than queued.
	<-src.Started()
	if _, err := r.Read(ctx, 4); !errors.Is(err, sioerrors.ErrConcurrentRead) {
		t.Fatalf("overlapping read got %v, want ErrConcurrentRead", err)
	}

	r.Discard()

	if err := <-errCh; !errors.Is(err, sioerrors.ErrDiscarded) {
		t.Fatalf("outstanding read got %v, want ErrDiscarded", err)
	}
}

func TestBlockingConcurrentReadRejected(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewGatedReader([]byte("abcd"))
	r, err := stream.NewBlocking(src, 4)
	testutil.AssertNoError(t, err)

	firstResult := make(chan []byte, 1)
	go func() {
		chunk, _ := r.Read(ctx, 4)
		firstResult <- chunk
	}()

	<-src.Started()
	if _, err := r.Read(ctx, 4); !errors.Is(err, sioerrors.ErrConcurrentRead) {
		t.Fatalf("overlapping read got %v, want ErrConcurrentRead", err)
	}

	// The rejected overlapping read leaves the first call unaffected.
	src.Release()
	if got := <-firstResult; !bytes.Equal(got, []byte("abcd")) {
		t.Fatalf("first read got %q, want %q", got, "abcd")
	}

	r.Discard()
}

func TestBlockingChunkSizeCap(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	src := testutil.NewCountingCloser(strings.NewReader("abcdefgh"))
	r, err := stream.NewBlocking(src, 2)
	testutil.AssertNoError(t, err)

	// max is capped at the configured chunk size.
	chunk, err := r.Read(ctx, 100)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(chunk), 2)

	r.Discard()
}

func TestBlockingInvalidConfig(t *testing.T) {
	if _, err := stream.NewBlocking(nil, 4); !errors.Is(err, sioerrors.ErrInvalidConfiguration) {
		t.Fatalf("nil src: got %v, want ErrInvalidConfiguration", err)
	}
	src := testutil.NewCountingCloser(strings.NewReader(""))
	if _, err := stream.NewBlocking(src, 0); !errors.Is(err, sioerrors.ErrInvalidConfiguration) {
		t.Fatalf("zero chunk size: got %v, want ErrInvalidConfiguration", err)
	}
}

// waitForState polls until cond holds, failing the test after the shared
// timeout budget.
func waitForState(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(testutil.TestTimeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached before timeout")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBlockingAbandonedWait(t *testing.T) {
	src := testutil.NewGatedReader([]byte("late"))
	r, err := stream.NewBlocking(src, 4)
	testutil.AssertNoError(t, err)

	readCtx, readCancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := r.Read(readCtx, 4)
		errCh <- err
	}()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	<-src.Started()

	// Abandoning the wait does not corrupt the stream; the fetch stays
	// outstanding until it resolves.
	readCancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}

	// The chunk the abandoned fetch produced is retained for the next read.
	src.Release()
	var got []byte
	waitForState(t, func() bool {
		chunk, err := r.Read(ctx, 4)
		if errors.Is(err, sioerrors.ErrConcurrentRead) {
			return false
		}
		testutil.AssertNoError(t, err)
		got = chunk
		return true
	})
	if !bytes.Equal(got, []byte("late")) {
		t.Fatalf("got %q, want %q", got, "late")
	}

	r.Discard()
}
