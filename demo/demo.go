// Package demo scripts the side-by-side scenarios that show how console
// output and the structured logging facility differ in practice.
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"logbench/applog"
)

const (
	DefaultNetworkDelay = 2 * time.Second

	apiURL       = "https://api.example.com/users"
	sampleEmail  = "user@example.com"
	samplePasswd = "password123"
)

var ErrRequestInFlight = errors.New("a network request is already in flight")

type Outcome struct {
	Success    bool
	StatusCode int
	Bytes      int
}

type Demo struct {
	Log     *applog.Facility
	Console *applog.Console
	Board   *Board

	// Delay is how long the simulated request takes.
	Delay time.Duration
	// Coin decides whether the simulated request succeeds.
	Coin func() bool

	inFlight atomic.Bool
}

func New(log *applog.Facility, console *applog.Console) *Demo {
	return &Demo{
		Log:     log,
		Console: console,
		Board:   NewBoard(),
		Delay:   DefaultNetworkDelay,
		Coin:    func() bool { return rand.Intn(2) == 0 },
	}
}

// Compare writes the same sensitive values through the console, where they
// leak verbatim, and through the facility, where they are redacted. Console
// write errors are returned once the scenario completes.
func (d *Demo) Compare(userName string) error {
	d.Log.App.Debug("=== print vs logger comparison started ===")
	d.Board.Add("🔄 Running comparison...")

	err := errors.Join(
		d.Console.Printf("❌ [PRINT] user email: %s\n", sampleEmail),
		d.Console.Printf("❌ [PRINT] password: %s\n", samplePasswd),
		d.Console.Println("❌ [PRINT] this output exposes personal data!"),
	)

	d.Log.DataModel.Info("✅ [LOGGER] user email", applog.Private("email", sampleEmail))
	d.Log.DataModel.Info("✅ [LOGGER] password", applog.Private("password", samplePasswd))
	d.Log.DataModel.Info("✅ [LOGGER] personal data is protected")

	if userName != "" {
		d.Log.DataModel.Info("user name entered", applog.Private("user_name", userName))
		d.Board.Add("👤 User name processed")
	} else {
		d.Log.DataModel.Notice("user name is empty")
		d.Board.Add("⚠️ User name missing")
	}

	d.Log.App.Debug("comparison finished")
	d.Board.Add("✅ Comparison finished - check the console output")
	return d.consoleErr(err)
}

func (d *Demo) consoleErr(err error) error {
	if err == nil {
		return nil
	}
	d.Log.UI.Error("console write failed", "error", err)
	return fmt.Errorf("console output: %w", err)
}

// StartNetwork begins a simulated API call and invokes done once it resolves
// or ctx is cancelled. Only one request may be in flight at a time; the
// slot is released before done runs.
func (d *Demo) StartNetwork(ctx context.Context, done func(Outcome, error)) error {
	if !d.inFlight.CompareAndSwap(false, true) {
		d.Log.Network.Notice("request rejected, another one is in flight")
		return ErrRequestInFlight
	}

	d.Log.Network.Info("🌐 network request started")
	d.Board.Add("🌐 API call started...")
	d.Log.Network.Debug("request URL", "url", apiURL)

	go func() {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			d.Log.Network.Notice("network request cancelled", "error", ctx.Err())
			d.Board.Add("⏹ API call cancelled")
			d.inFlight.Store(false)
			done(Outcome{}, ctx.Err())
			return
		case <-timer.C:
		}

		var out Outcome
		if d.Coin() {
			out = Outcome{Success: true, StatusCode: 200, Bytes: 1024}
			d.Log.Network.Info("✅ API call succeeded", "status", out.StatusCode)
			d.Log.Network.Debug("received payload", "bytes", out.Bytes)
			d.Board.Add("✅ API call succeeded")
		} else {
			out = Outcome{StatusCode: 500}
			d.Log.Network.Error("❌ API call failed", "status", out.StatusCode)
			d.Board.Add("❌ API call failed")
		}
		d.inFlight.Store(false)
		done(out, nil)
	}()
	return nil
}

// Network runs StartNetwork and waits for the outcome.
func (d *Demo) Network(ctx context.Context) (Outcome, error) {
	type result struct {
		out Outcome
		err error
	}
	ch := make(chan result, 1)
	if err := d.StartNetwork(ctx, func(o Outcome, err error) { ch <- result{o, err} }); err != nil {
		return Outcome{}, err
	}
	r := <-ch
	return r.out, r.err
}

// Levels emits one record per severity.
func (d *Demo) Levels() {
	d.Log.App.Info("🚨 error handling demo started")
	d.Board.Add("🚨 Error handling demo started")

	d.Log.App.Debug("debug: detailed processing information")
	d.Log.App.Info("info: important state change")
	d.Log.App.Notice("notice: significant but not an error")
	d.Log.App.Error("error: operation failed")
	d.Log.App.Fault("fault: system error occurred")

	for _, l := range applog.Levels {
		d.Board.Add("📝 Logged at " + applog.LevelName(l))
	}

	d.Log.App.Info("error handling demo finished")
	d.Board.Add("✅ All levels logged")
}

// CommandLine emits tagged records in every category so they are easy to
// filter from a shell.
func (d *Demo) CommandLine() error {
	d.Log.App.Info("📟 command line demo started")
	d.Board.Add("📟 Command line demo started")

	d.Log.App.Info("🔍 [CMD_DEMO] log line for command line filtering")
	d.Log.Network.Error("🔍 [CMD_DEMO] sample network error")
	d.Log.UI.Debug("🔍 [CMD_DEMO] sample UI debug information")
	d.Log.DataModel.Notice("🔍 [CMD_DEMO] data model notice")

	err := d.Console.Println("🔍 [CMD_DEMO_PRINT] this line comes from plain console output")

	d.Board.Add("✅ Command line logs written")
	d.Board.Add(`💡 Filter them with: grep CMD_DEMO`)
	return d.consoleErr(err)
}

// Clear empties the message board.
func (d *Demo) Clear() {
	d.Log.UI.Info("message board cleared")
	d.Board.Clear()
}
