// Package poll drives the recurring inbox refresh for the active session.
// The poller is an explicit two-state machine: Idle (no token, no timers)
// and Active (one owning goroutine holding the fetch ticker and the
// cosmetic one-second countdown). Both timers belong to exactly one
// activation and die together with it; a superseded activation can never
// deliver results for a stale token.
package poll

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tempbox/tempbox/internal/model"
	"github.com/tempbox/tempbox/internal/provider"
)

// State is the poller's lifecycle state.
type State int

const (
	Idle State = iota
	Active
)

// Lister is the slice of the provider client the poller needs.
type Lister interface {
	ListMessages(ctx context.Context, token string) ([]model.MessageSummary, error)
}

// InboxMsg carries the result of one inbox fetch. The message list
// replaces the previous one wholesale; overlapping in-flight fetches are
// tolerated because the last delivered response wins.
type InboxMsg struct {
	Messages []model.MessageSummary
	Err      error
}

// NewMailMsg is sent when a fetch returns strictly more messages than the
// previous in-memory count. It never fires on the first fetch after
// activation: that fetch only establishes the baseline.
type NewMailMsg struct {
	Count int
}

// CountdownMsg ticks the user-facing countdown. Purely cosmetic; the
// fetch schedule does not depend on it.
type CountdownMsg struct {
	Remaining int
}

// SessionExpiredMsg is sent when a fetch reports a rejected token. The
// poller has already returned to Idle; the receiver is expected to clear
// the current credential slot (and only that slot).
type SessionExpiredMsg struct{}

// fetchTimeout is the maximum time allowed for a single inbox fetch.
const fetchTimeout = 30 * time.Second

// activation owns the timers of one Active period.
type activation struct {
	token  string
	stopCh chan struct{}
	once   gosync.Once
}

func (a *activation) stop() {
	a.once.Do(func() { close(a.stopCh) })
}

// Poller issues recurring inbox-list requests for the active token.
type Poller struct {
	lister   Lister
	interval time.Duration

	msgCh     chan tea.Msg
	refreshCh chan struct{}

	mu        gosync.Mutex
	current   *activation
	lastCount int
	primed    bool
}

// New creates an idle poller. interval is the recurring fetch period.
func New(lister Lister, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{
		lister:    lister,
		interval:  interval,
		msgCh:     make(chan tea.Msg, 16),
		refreshCh: make(chan struct{}, 1),
	}
}

// State reports whether the poller is currently Active.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		return Active
	}
	return Idle
}

// Start activates polling for the given token: one immediate fetch, then
// a recurring fetch every interval, plus the one-second countdown. Any
// previous activation is stopped first. The returned command subscribes
// the Bubble Tea runtime to the poller's messages; re-arm it with
// WaitForNext after each received message.
func (p *Poller) Start(token string) tea.Cmd {
	p.mu.Lock()
	if p.current != nil {
		p.current.stop()
	}
	// A refresh left pending by a previous activation must not trigger an
	// extra fetch in this one.
	select {
	case <-p.refreshCh:
	default:
	}
	act := &activation{token: token, stopCh: make(chan struct{})}
	p.current = act
	p.lastCount = 0
	p.primed = false
	p.mu.Unlock()

	go p.run(act)

	return p.waitForMsg()
}

// Stop returns the poller to Idle, cancelling both timers. Safe to call
// when already idle.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil {
		p.current.stop()
		p.current = nil
	}
}

// Refresh requests one immediate out-of-band fetch. It also resets the
// countdown and the recurring ticker's phase, so the next automatic fetch
// is a full interval after the manual one.
func (p *Poller) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
		// A refresh is already pending; one is enough.
	}
}

// WaitForNext returns a command that waits for the poller's next message.
func (p *Poller) WaitForNext() tea.Cmd {
	return p.waitForMsg()
}

// run is the owning goroutine of one activation.
func (p *Poller) run(act *activation) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	countdown := time.NewTicker(time.Second)
	defer countdown.Stop()

	intervalSec := int(p.interval / time.Second)
	remaining := intervalSec

	// Immediate fetch on entry. Fetches run in their own goroutine so a
	// hanging request delays only its own cycle, never the next tick.
	go p.fetch(act)

	for {
		select {
		case <-act.stopCh:
			return

		case <-ticker.C:
			remaining = intervalSec
			go p.fetch(act)

		case <-p.refreshCh:
			remaining = intervalSec
			ticker.Reset(p.interval)
			go p.fetch(act)

		case <-countdown.C:
			remaining--
			if remaining < 0 {
				remaining = intervalSec
			}
			p.send(act, CountdownMsg{Remaining: remaining})
		}
	}
}

// fetch performs a single inbox-list request and reports the outcome.
func (p *Poller) fetch(act *activation) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	messages, err := p.lister.ListMessages(ctx, act.token)
	if err != nil {
		if errors.Is(err, provider.ErrUnauthorized) {
			// Token expiry forces this activation down; the app clears
			// the current slot when it sees the message.
			p.expire(act)
			return
		}
		p.send(act, InboxMsg{Err: err})
		return
	}

	p.mu.Lock()
	if p.current != act {
		// A superseded activation must not touch the baseline: a stale
		// response re-priming the counter would let the next activation's
		// first fetch raise a new-mail notification.
		p.mu.Unlock()
		return
	}
	count := len(messages)
	newCount := 0
	if p.primed && count > p.lastCount {
		newCount = count - p.lastCount
	}
	p.lastCount = count
	p.primed = true
	p.mu.Unlock()

	p.send(act, InboxMsg{Messages: messages})
	if newCount > 0 {
		p.send(act, NewMailMsg{Count: newCount})
	}
}

// expire stops the activation and emits SessionExpiredMsg, unless a newer
// activation has already replaced it.
func (p *Poller) expire(act *activation) {
	p.mu.Lock()
	if p.current != act {
		p.mu.Unlock()
		return
	}
	act.stop()
	p.current = nil
	p.mu.Unlock()

	select {
	case p.msgCh <- SessionExpiredMsg{}:
	default:
	}
}

// send delivers a message unless the activation has been superseded.
func (p *Poller) send(act *activation, msg tea.Msg) {
	select {
	case <-act.stopCh:
		return
	default:
	}

	p.mu.Lock()
	stale := p.current != act
	p.mu.Unlock()
	if stale {
		return
	}

	select {
	case p.msgCh <- msg:
	default:
		// Drop rather than block the timer goroutine.
	}
}

// waitForMsg returns a command that blocks on the message channel.
func (p *Poller) waitForMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-p.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}
