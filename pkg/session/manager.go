package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/blend/internal/logging"
	"github.com/aretw0/blend/pkg/domain"
	"github.com/aretw0/blend/pkg/formula"
	"github.com/aretw0/blend/pkg/mention"
	"github.com/aretw0/blend/pkg/observability"
	"github.com/aretw0/blend/pkg/ports"
)

// DefaultBlurGrace is how long a focus loss waits before exiting direct entry,
// so that a click on a suggestion (which itself steals focus) lands first.
const DefaultBlurGrace = 150 * time.Millisecond

// Terms is the slice of the combination service the sessions need.
type Terms interface {
	Get(ctx context.Context, id string) (*domain.Combination, error)
	ReplaceTerms(ctx context.Context, id string, terms []domain.Term) (*domain.Combination, error)
}

// ExitHook observes every exit from direct entry, including deferred ones.
type ExitHook func(res ExitResult, err error)

// entry is one open edit session. Its mutex orders the events of one combination.
type entry struct {
	mu sync.Mutex

	state       domain.EditSession
	ctl         mention.Controller
	suggestions []domain.Identifier
	dismissed   int // anchor of a trigger closed by commit/escape, -1 if none
	pending     *time.Timer
	gen         uint64 // bumped per scheduled exit; a timer fires only for its own generation
	closed      bool
}

// Manager is the edit-session store: combination ID -> open session.
// A combination without a session is in builder mode.
type Manager struct {
	terms    Terms
	registry ports.Registry

	mu       sync.Mutex
	sessions map[string]*entry

	blurGrace   time.Duration
	limit       int
	excludeUsed bool
	onExit      ExitHook
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// Option configures the Manager.
type Option func(*Manager)

// WithBlurGrace sets the focus-loss grace period. Zero exits immediately.
func WithBlurGrace(d time.Duration) Option {
	return func(m *Manager) {
		m.blurGrace = max(d, 0)
	}
}

// WithSuggestionLimit caps the suggestion list.
func WithSuggestionLimit(n int) Option {
	return func(m *Manager) {
		m.limit = n
	}
}

// WithExcludeUsed hides inputs already referenced in the buffer from suggestions.
func WithExcludeUsed(exclude bool) Option {
	return func(m *Manager) {
		m.excludeUsed = exclude
	}
}

// WithExitHook registers a callback run after every exit.
func WithExitHook(hook ExitHook) Option {
	return func(m *Manager) {
		m.onExit = hook
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records session activity.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates an edit-session store.
func NewManager(terms Terms, registry ports.Registry, opts ...Option) *Manager {
	m := &Manager{
		terms:     terms,
		registry:  registry,
		sessions:  make(map[string]*entry),
		blurGrace: DefaultBlurGrace,
		limit:     mention.DefaultLimit,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mode reports the current mode of a combination.
func (m *Manager) Mode(id string) domain.EditMode {
	if m.lookup(id) != nil {
		return domain.ModeDirectEntry
	}
	return domain.ModeBuilder
}

// Session returns a snapshot of the open session, if any.
func (m *Manager) Session(id string) (domain.EditSession, bool) {
	e := m.lookup(id)
	if e == nil {
		return domain.EditSession{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.EditSession{}, false
	}
	return e.state, true
}

// View returns what the host should render for a combination.
func (m *Manager) View(id string) View {
	e := m.lookup(id)
	if e == nil {
		return View{CombinationID: id, Mode: domain.ModeBuilder}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return View{CombinationID: id, Mode: domain.ModeBuilder}
	}
	return e.view()
}

// Enter switches a combination to direct entry, seeding the buffer with its
// serialized terms. Entering an open session returns it unchanged.
func (m *Manager) Enter(ctx context.Context, id string) (View, error) {
	if e := m.lookup(id); e != nil {
		return m.View(id), nil
	}

	c, err := m.terms.Get(ctx, id)
	if err != nil {
		return View{}, err
	}
	buffer := formula.Serialize(c.Terms)

	e := &entry{
		state: domain.EditSession{
			CombinationID: id,
			Mode:          domain.ModeDirectEntry,
			Buffer:        buffer,
			Caret:         mention.Len(buffer),
		},
		dismissed: -1,
	}

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		existing.mu.Lock()
		defer existing.mu.Unlock()
		return existing.view(), nil
	}
	m.sessions[id] = e
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.logger.Debug("Direct entry opened", "combination_id", id, "buffer", buffer)
	return e.view(), nil
}

// Exit leaves direct entry: the buffer is parsed and, when valid, replaces
// the combination's terms. An invalid buffer is discarded.
// Registry and store errors keep the session open, except when the combination
// no longer exists: the session is then closed as discarded.
func (m *Manager) Exit(ctx context.Context, id string) (ExitResult, error) {
	e := m.lookup(id)
	if e == nil {
		return ExitResult{}, domain.ErrNoEditSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ExitResult{}, domain.ErrNoEditSession
	}
	return m.exit(ctx, id, e)
}

// Toggle switches between builder and direct entry.
func (m *Manager) Toggle(ctx context.Context, id string) (View, error) {
	if m.lookup(id) == nil {
		return m.Enter(ctx, id)
	}
	if _, err := m.Exit(ctx, id); err != nil {
		return View{}, err
	}
	return View{CombinationID: id, Mode: domain.ModeBuilder}, nil
}

// Dispatch applies one UI event to the open session of a combination.
func (m *Manager) Dispatch(ctx context.Context, id string, ev Event) (View, error) {
	e := m.lookup(id)
	if e == nil {
		return View{}, domain.ErrNoEditSession
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return View{}, domain.ErrNoEditSession
	}

	handled := false
	switch ev.Type {
	case EventTextChanged:
		if ev.Text != e.state.Buffer {
			e.dismissed = -1
		}
		e.state.Buffer = ev.Text
		e.state.Caret = clampCaret(ev.Caret, ev.Text)
		m.refresh(ctx, e)

	case EventCaretMoved:
		e.state.Caret = clampCaret(ev.Caret, e.state.Buffer)
		m.refresh(ctx, e)

	case EventKeyPressed:
		handled = m.key(e, ev.Key)

	case EventSuggestionClicked:
		if e.state.Mention.Active && ev.Index >= 0 && ev.Index < len(e.suggestions) {
			e.ctl.Select(ev.Index)
			m.commit(e)
			handled = true
		}

	case EventFocusLost:
		if m.blurGrace == 0 {
			if _, err := m.exit(ctx, id, e); err != nil {
				return e.view(), err
			}
			return View{CombinationID: id, Mode: domain.ModeBuilder}, nil
		}
		if e.pending == nil {
			e.gen++
			gen := e.gen
			e.pending = time.AfterFunc(m.blurGrace, func() { m.deferredExit(id, e, gen) })
		}

	case EventFocusGained:
		e.stopPending()

	default:
		return e.view(), fmt.Errorf("unknown event type %q", ev.Type)
	}

	v := e.view()
	v.Handled = handled
	return v, nil
}

// Close stops pending exits without applying them. Open sessions are discarded.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*entry)
	m.mu.Unlock()

	for _, e := range sessions {
		e.mu.Lock()
		e.stopPending()
		if !e.closed {
			e.closed = true
			m.metrics.SessionClosed()
		}
		e.mu.Unlock()
	}
}

// Discard closes the session of id without parsing its buffer, as when the
// combination itself was deleted. It reports whether a session was open.
func (m *Manager) Discard(id string) bool {
	e := m.lookup(id)
	if e == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	e.stopPending()
	res := ExitResult{CombinationID: id, Outcome: observability.OutcomeDiscarded}
	m.finish(id, e, res)
	return true
}

func (m *Manager) lookup(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}

// deferredExit runs when a focus-loss grace period ends.
// It is a no-op when the exit was cancelled or rescheduled in the meantime.
func (m *Manager) deferredExit(id string, e *entry, gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.pending == nil || e.gen != gen {
		return
	}
	e.pending = nil

	if _, err := m.exit(context.Background(), id, e); err != nil {
		m.logger.Warn("Deferred exit from direct entry failed", "combination_id", id, "err", err)
	}
}

// exit must be called with e.mu held.
func (m *Manager) exit(ctx context.Context, id string, e *entry) (ExitResult, error) {
	e.stopPending()

	registry, err := m.registry.Identifiers(ctx)
	if err != nil {
		err = fmt.Errorf("failed to load registry: %w", err)
		m.notify(ExitResult{CombinationID: id}, err)
		return ExitResult{}, err
	}

	parsed := formula.Parse(e.state.Buffer, registry)
	res := ExitResult{
		CombinationID: id,
		Unresolved:    parsed.Unresolved,
	}

	switch {
	case !parsed.Valid:
		res.Outcome = observability.OutcomeRejected
		c, err := m.terms.Get(ctx, id)
		if err == nil {
			res.Terms = c.Terms
		}
	default:
		c, err := m.terms.ReplaceTerms(ctx, id, parsed.Terms)
		switch {
		case errors.Is(err, domain.ErrCombinationNotFound):
			res.Outcome = observability.OutcomeDiscarded
		case err != nil:
			err = fmt.Errorf("failed to commit formula: %w", err)
			m.notify(ExitResult{CombinationID: id}, err)
			return ExitResult{}, err
		default:
			res.Applied = true
			res.Terms = c.Terms
			res.Outcome = observability.OutcomeApplied
			if len(parsed.Terms) == 0 {
				res.Outcome = observability.OutcomeCleared
			}
		}
	}

	m.finish(id, e, res)
	return res, nil
}

// finish closes e and reports res. Must be called with e.mu held.
func (m *Manager) finish(id string, e *entry, res ExitResult) {
	e.closed = true
	m.mu.Lock()
	if m.sessions[id] == e {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	m.metrics.SessionClosed()
	m.metrics.FormulaCommitted(res.Outcome, len(res.Unresolved))
	m.logger.Debug("Direct entry closed",
		"combination_id", id,
		"outcome", res.Outcome,
		"unresolved", len(res.Unresolved),
	)
	m.notify(res, nil)
}

func (m *Manager) notify(res ExitResult, err error) {
	if m.onExit != nil {
		m.onExit(res, err)
	}
}

// refresh re-runs mention detection after a text or caret change.
func (m *Manager) refresh(ctx context.Context, e *entry) {
	prev := e.state.Mention
	cur := mention.Detect(e.state.Buffer, e.state.Caret)
	if cur.Active && cur.Anchor == e.dismissed {
		cur.Active = false
	}
	if !cur.Active {
		e.ctl.Cancel()
		e.suggestions = nil
		e.state.Mention = domain.Mention{}
		return
	}
	e.dismissed = -1
	e.state.Mention = cur

	if prev.Active && prev.Anchor == cur.Anchor && prev.Query == cur.Query && e.ctl.Active() {
		return
	}
	e.suggestions = m.suggest(ctx, e, cur.Query)
	e.ctl.QueryChanged(len(e.suggestions))
}

func (m *Manager) suggest(ctx context.Context, e *entry, query string) []domain.Identifier {
	registry, err := m.registry.Identifiers(ctx)
	if err != nil {
		m.logger.Warn("Failed to load registry for suggestions",
			"combination_id", e.state.CombinationID,
			"err", err,
		)
		return nil
	}
	if m.excludeUsed {
		registry = mention.Exclude(registry, usedInputs(e.state.Buffer, e.state.Mention.Anchor, registry))
	}
	return mention.Suggest(registry, query, m.limit)
}

// usedInputs lists the inputs referenced in buffer, leaving out the mention
// whose '@' sits at anchor (a rune offset): that one is still being typed.
func usedInputs(buffer string, anchor int, registry []domain.Identifier) []string {
	runes := []rune(buffer)
	at := len(string(runes[:max(min(anchor, len(runes)), 0)]))

	parsed := formula.Parse(buffer, registry)
	var used []string
	i := 0
	for _, sp := range parsed.Spans {
		if !sp.Resolved {
			continue
		}
		if sp.NameStart != at {
			used = append(used, parsed.Terms[i].InputID)
		}
		i++
	}
	return used
}

// key handles autocomplete keys and reports whether the key was consumed.
func (m *Manager) key(e *entry, key Key) bool {
	if !e.state.Mention.Active {
		return false
	}
	switch key {
	case KeyDown:
		e.ctl.Down()
		return len(e.suggestions) > 0
	case KeyUp:
		e.ctl.Up()
		return len(e.suggestions) > 0
	case KeyEnter, KeyTab:
		if len(e.suggestions) == 0 {
			return false
		}
		m.commit(e)
		return true
	case KeyEscape:
		e.ctl.Cancel()
		e.suggestions = nil
		e.dismissed = e.state.Mention.Anchor
		e.state.Mention = domain.Mention{}
		return true
	}
	return false
}

// commit inserts the selected suggestion. The buffer is not parsed.
func (m *Manager) commit(e *entry) {
	ident, ok := e.ctl.Commit(e.suggestions)
	if !ok {
		return
	}
	mn := e.state.Mention
	e.state.Buffer, e.state.Caret = mention.Insert(e.state.Buffer, mn.Anchor, mention.Len(mn.Query), ident.Name)
	e.dismissed = mn.Anchor
	e.state.Mention = domain.Mention{}
	e.suggestions = nil
	m.metrics.MentionInserted()
}

func (e *entry) stopPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

func (e *entry) view() View {
	suggestions := make([]domain.Identifier, len(e.suggestions))
	copy(suggestions, e.suggestions)
	return View{
		CombinationID: e.state.CombinationID,
		Mode:          domain.ModeDirectEntry,
		Buffer:        e.state.Buffer,
		Caret:         e.state.Caret,
		Mention:       e.state.Mention,
		Suggestions:   suggestions,
		Selected:      e.ctl.Selected(),
		PendingExit:   e.pending != nil,
	}
}

func clampCaret(caret int, text string) int {
	return max(min(caret, mention.Len(text)), 0)
}
