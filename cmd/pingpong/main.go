// File: cmd/pingpong/main.go
package main

import (
	"fmt"
	"time"

	"github.com/havenix/ergo/actor"
)

func main() {
	// 0. Load configuration
	cfg := actor.DefaultConfig()
	fmt.Println("Configuration loaded (using defaults).")
	fmt.Printf("Pool workers: %d, shutdown timeout: %v\n", cfg.PoolWorkers, cfg.ShutdownTimeout)

	// 1. Build the pool
	pool := actor.NewPool(cfg)
	fmt.Println("Worker pool created.")

	// 2. Spawn a pong actor that answers ten increments, thread-based
	pongPID := actor.Spawn(pool, func(a *actor.Actor) actor.Result {
		for i := 0; i < 10; i++ {
			_, err := a.Receive(actor.Handler{
				Match: func(m interface{}) bool { _, ok := m.(int); return ok },
				Do: func(m interface{}) actor.Result {
					n := m.(int)
					fmt.Printf("pong: got %d, replying with %d\n", n, n+1)
					a.Reply(n + 1)
					return actor.Done(m)
				},
			})
			if err != nil {
				fmt.Printf("pong: receive failed: %v\n", err)
				return actor.Fail(err)
			}
		}
		return actor.Done(nil)
	})
	fmt.Printf("PongActor spawned with PID: %s\n", pongPID)

	// 3. Spawn a ping actor that drives ten synchronous exchanges
	finished := make(chan int, 1)
	pingPID := actor.Spawn(pool, func(a *actor.Actor) actor.Result {
		n := 0
		for i := 0; i < 10; i++ {
			v, err := a.Ask(pongPID, n, time.Second)
			if err != nil {
				fmt.Printf("ping: ask failed: %v\n", err)
				return actor.Fail(err)
			}
			n = v.(int)
		}
		finished <- n
		return actor.Done(nil)
	})
	fmt.Printf("PingActor spawned with PID: %s\n", pingPID)

	select {
	case n := <-finished:
		fmt.Printf("ping/pong finished after 10 exchanges, final value %d\n", n)
	case <-time.After(5 * time.Second):
		fmt.Println("ping/pong did not finish within 5s")
	}

	// 4. Exercise linking and trap-exit: a watchdog that logs what takes
	// down a worker instead of being torn down itself.
	watchdogExit := make(chan actor.Exit, 1)
	watchdogPID := actor.Spawn(pool, func(a *actor.Actor) actor.Result {
		a.SetTrapExit(true)
		msg, err := a.Receive(actor.Handler{
			Match: func(m interface{}) bool { _, ok := m.(actor.Exit); return ok },
			Do:    func(m interface{}) actor.Result { return actor.Done(m) },
		})
		if err == nil {
			watchdogExit <- msg.(actor.Exit)
		}
		return actor.Done(nil)
	})
	fmt.Printf("WatchdogActor spawned with PID: %s\n", watchdogPID)

	worker := actor.Spawn(pool, func(a *actor.Actor) actor.Result {
		a.Link(watchdogPID)
		return actor.Fail(fmt.Errorf("worker encountered an unrecoverable condition"))
	})
	fmt.Printf("WorkerActor spawned with PID: %s\n", worker)

	select {
	case ex := <-watchdogExit:
		fmt.Printf("watchdog observed exit from %s: %s\n", ex.From, ex.Reason)
	case <-time.After(2 * time.Second):
		fmt.Println("watchdog never observed a linked exit")
	}

	// 5. Exercise the event-based path: an actor that reacts to whichever
	// of two alternatives shows up first, without pinning a worker while
	// it waits.
	chosen := make(chan string, 1)
	chooserPID := actor.Spawn(pool, func(a *actor.Actor) actor.Result {
		return actor.Choose(a,
			actor.Handler{
				Match: func(m interface{}) bool { _, ok := m.(int); return ok },
				Do: func(m interface{}) actor.Result {
					chosen <- fmt.Sprintf("int(%d)", m.(int))
					return actor.Done(nil)
				},
			},
			actor.Handler{
				Match: func(m interface{}) bool { _, ok := m.(string); return ok },
				Do: func(m interface{}) actor.Result {
					chosen <- fmt.Sprintf("string(%q)", m.(string))
					return actor.Done(nil)
				},
			},
		)
	})
	fmt.Printf("ChooserActor spawned with PID: %s\n", chooserPID)
	actor.Send(chooserPID, "pick me")

	select {
	case which := <-chosen:
		fmt.Printf("chooser matched %s\n", which)
	case <-time.After(time.Second):
		fmt.Println("chooser never matched an alternative")
	}

	// 6. Shut down gracefully, waiting for every actor to finish.
	fmt.Println("Shutting down pool...")
	pool.Shutdown()
	fmt.Println("Pool shutdown complete.")
}
