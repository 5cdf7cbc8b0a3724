package actor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func isInt(msg interface{}) bool {
	_, ok := msg.(int)
	return ok
}

func TestPingPong_TenSynchronousExchanges(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	pongPID := Spawn(pool, func(a *Actor) Result {
		for i := 0; i < 10; i++ {
			_, err := a.Receive(Handler{
				Match: isInt,
				Do: func(m interface{}) Result {
					a.Reply(m.(int) + 1)
					return Done(m)
				},
			})
			if err != nil {
				return Fail(err)
			}
		}
		return Done(nil)
	})

	results := make(chan int, 1)
	Spawn(pool, func(a *Actor) Result {
		n := 0
		for i := 0; i < 10; i++ {
			v, err := a.Ask(pongPID, n, time.Second)
			if err != nil {
				return Fail(err)
			}
			n = v.(int)
		}
		results <- n
		return Done(nil)
	})

	select {
	case n := <-results:
		assert.Equal(t, 10, n, "ten round trips should each increment by one")
	case <-time.After(2 * time.Second):
		t.Fatal("ping/pong exchange never completed")
	}
}

func TestAsk_TimesOutWhenNobodyReplies(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	silent := Spawn(pool, func(a *Actor) Result {
		_, _ = a.Receive(Handler{
			Match: func(interface{}) bool { return false },
			Do:    func(interface{}) Result { return Done(nil) },
		})
		return Done(nil)
	})

	_, err := Ask(silent, "hello", 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrAskTimeout)
}

func TestAsk_TargetAlreadyTerminated(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	pid := Spawn(pool, func(a *Actor) Result { return Done(nil) })
	assert.Eventually(t, func() bool { return pid.actorRef.isTerminated() }, time.Second, time.Millisecond)

	_, err := Ask(pid, "hi", 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTerminated)
}

func TestReactWithin_TimeoutLandsInBudget(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	began := time.Now()
	fired := make(chan time.Duration, 1)

	Spawn(pool, func(a *Actor) Result {
		return a.ReactWithin(50*time.Millisecond, Handler{
			Match: func(m interface{}) bool { _, ok := m.(Timeout); return ok },
			Do: func(m interface{}) Result {
				fired <- time.Since(began)
				return Done(nil)
			},
		})
	})

	select {
	case d := <-fired:
		assert.GreaterOrEqual(t, d.Milliseconds(), int64(50))
		assert.Less(t, d.Milliseconds(), int64(200))
	case <-time.After(time.Second):
		t.Fatal("react timeout never fired")
	}
}

func TestReactWithin_RealMatchDeliveredBeforeTimeout(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	got := make(chan interface{}, 1)
	pid := Spawn(pool, func(a *Actor) Result {
		return a.ReactWithin(200*time.Millisecond, Handler{
			Match: isInt,
			Do: func(m interface{}) Result {
				got <- m
				return Done(nil)
			},
		})
	})

	time.Sleep(10 * time.Millisecond)
	Send(pid, 42)

	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("real message was never delivered to the reaction")
	}
}

func TestReceiveFrom_FiltersBySender(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	got := make(chan interface{}, 1)
	sendTo := make(chan *PID, 1)

	bSend := Spawn(pool, func(a *Actor) Result {
		target := <-sendTo
		a.Send(target, "from B, accepted")
		return Done(nil)
	})

	target := Spawn(pool, func(a *Actor) Result {
		msg, err := a.ReceiveFrom(bSend, Handler{
			Match: func(interface{}) bool { return true },
			Do:    func(m interface{}) Result { return Done(m) },
		})
		if err == nil {
			got <- msg
		}
		return Done(nil)
	})

	Spawn(pool, func(a *Actor) Result {
		a.Send(target, "from A, ignored")
		return Done(nil)
	})
	sendTo <- target

	select {
	case v := <-got:
		assert.Equal(t, "from B, accepted", v)
	case <-time.After(time.Second):
		t.Fatal("ReceiveFrom never matched the expected sender")
	}
}

func TestLink_TrapExitReifiesAsMessage(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	gotExit := make(chan Exit, 1)

	bPID := Spawn(pool, func(a *Actor) Result {
		a.SetTrapExit(true)
		msg, err := a.Receive(Handler{
			Match: func(m interface{}) bool { _, ok := m.(Exit); return ok },
			Do:    func(m interface{}) Result { return Done(m) },
		})
		if err == nil {
			gotExit <- msg.(Exit)
		}
		return Done(nil)
	})

	aPID := Spawn(pool, func(a *Actor) Result {
		a.Link(bPID)
		return Fail(errors.New("boom"))
	})

	select {
	case ex := <-gotExit:
		assert.Equal(t, aPID.String(), ex.From.String())
		assert.Equal(t, "boom", ex.Reason)
	case <-time.After(time.Second):
		t.Fatal("trap-exit actor never received the reified Exit message")
	}
}

func TestLink_CascadesAcrossAChain(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	forever := func(a *Actor) Result {
		_, _ = a.Receive(Handler{
			Match: func(interface{}) bool { return false },
			Do:    func(interface{}) Result { return Done(nil) },
		})
		return Done(nil)
	}

	aPID := Spawn(pool, forever)
	bPID := Spawn(pool, forever)
	cPID := Spawn(pool, forever)

	aPID.actorRef.Link(bPID)
	bPID.actorRef.Link(cPID)

	aPID.actorRef.Exit("crash")

	assert.True(t, bPID.actorRef.isTerminated())
	assert.Equal(t, "crash", bPID.actorRef.ExitReason())
	assert.True(t, cPID.actorRef.isTerminated())
	assert.Equal(t, "crash", cPID.actorRef.ExitReason())
}

func TestLink_CycleSignalsEachPeerAtMostOnce(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	forever := func(a *Actor) Result {
		_, _ = a.Receive(Handler{
			Match: func(interface{}) bool { return false },
			Do:    func(interface{}) Result { return Done(nil) },
		})
		return Done(nil)
	}

	aPID := Spawn(pool, forever)
	bPID := Spawn(pool, forever)
	cPID := Spawn(pool, forever)

	aPID.actorRef.Link(bPID)
	bPID.actorRef.Link(cPID)
	cPID.actorRef.Link(aPID)

	assert.NotPanics(t, func() { aPID.actorRef.Exit("cycle") })
	assert.True(t, bPID.actorRef.isTerminated())
	assert.True(t, cPID.actorRef.isTerminated())
}

func TestNormalExitDoesNotCascade(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	forever := func(a *Actor) Result {
		_, _ = a.Receive(Handler{
			Match: func(interface{}) bool { return false },
			Do:    func(interface{}) Result { return Done(nil) },
		})
		return Done(nil)
	}

	proceed := make(chan struct{})
	aPID := Spawn(pool, func(a *Actor) Result {
		<-proceed
		return Done(nil)
	})
	bPID := Spawn(pool, forever)
	aPID.actorRef.Link(bPID)
	close(proceed)

	assert.Eventually(t, func() bool { return aPID.actorRef.isTerminated() }, time.Second, time.Millisecond)
	assert.False(t, bPID.actorRef.isTerminated(), "a normal exit must not terminate linked peers")
}

func TestSendToTerminatedActorIsSilentlyDropped(t *testing.T) {
	pool := NewPool(FastConfig())
	defer pool.Shutdown()

	pid := Spawn(pool, func(a *Actor) Result { return Done(nil) })
	assert.Eventually(t, func() bool { return pid.actorRef.isTerminated() }, time.Second, time.Millisecond)

	assert.NotPanics(t, func() { Send(pid, "nobody home") })
}
