package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"tabcal/config"
	"tabcal/internal/auth"
	"tabcal/internal/calendar"
	"tabcal/internal/event"
	"tabcal/internal/notify"
	"tabcal/internal/ui/components"
)

// Popup states
type popupState int

const (
	stateEditing popupState = iota
	statePreviewing
	stateSubmitting
	stateDone
)

// Focus order within the edit form. focusRecurringEnd is skipped while the
// draft is one-time.
const (
	focusTitle = iota
	focusDescription
	focusDate
	focusStart
	focusEndDate
	focusEnd
	focusRecurring
	focusRecurringEnd
	focusPreview
	focusCreate
)

type noticeKind int

const (
	noticeNone noticeKind = iota
	noticeError
	noticeSuccess
)

// notice is the single status slot under the form. A new notice always
// replaces the previous one.
type notice struct {
	text string
	kind noticeKind
}

// TokenProvider yields Google OAuth tokens for the popup's submit path.
type TokenProvider interface {
	TokenSilent(ctx context.Context) (*oauth2.Token, error)
	TokenInteractive(ctx context.Context) (*oauth2.Token, error)
}

// ClientFactory builds a calendar client around an authorized token.
type ClientFactory func(ctx context.Context, token *oauth2.Token) calendar.Client

// TabSource yields the page to prefill the draft from.
type TabSource interface {
	ActiveTab(ctx context.Context) (TabInfo, error)
}

// TabInfo mirrors tab.Info without importing the package, so tests can feed
// the popup directly.
type TabInfo struct {
	Title string
	URL   string
}

// Popup is the event capture TUI model.
type Popup struct {
	tabs      TabSource
	tokens    TokenProvider
	newClient ClientFactory
	cfg       config.Config
	now       func() time.Time

	state    popupState
	focusIdx int
	width    int
	height   int

	title        textinput.Model
	description  textinput.Model
	date         components.DatePicker
	start        components.TimePicker
	endDate      components.DatePicker
	end          components.TimePicker
	freqIdx      int // index into event.Frequencies()
	recurringEnd components.DatePicker

	// endDateTouched stops the end date from following the start date once
	// the user has edited it.
	endDateTouched bool
	signedIn       bool

	// initFailed marks the popup non-functional: tab capture failed, so the
	// form renders but preview and create are refused until relaunch.
	initFailed bool
	notice     notice
}

// Messages
type tabLoadedMsg struct {
	info TabInfo
	err  error
}

type authCheckedMsg struct {
	signedIn bool
}

type eventCreatedMsg struct {
	created *calendar.CreatedEvent
}

type submitErrMsg struct {
	err error
}

type doneTickMsg struct{}

// NewPopup builds the popup model with empty fields defaulted from now:
// start at the next minute, end one duration later on the same clock.
func NewPopup(tabs TabSource, tokens TokenProvider, newClient ClientFactory, cfg config.Config, now func() time.Time) *Popup {
	if now == nil {
		now = time.Now
	}
	duration := time.Duration(cfg.DefaultDurationMin) * time.Minute
	draft := event.New(now(), duration, "", "")

	title := textinput.New()
	title.Placeholder = "Event title"
	title.CharLimit = 200
	title.Focus()

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 500

	m := &Popup{
		tabs:         tabs,
		tokens:       tokens,
		newClient:    newClient,
		cfg:          cfg,
		now:          now,
		title:        title,
		description:  description,
		date:         components.NewDatePicker(draft.Start),
		start:        components.NewTimePicker(draft.Start),
		endDate:      components.NewDatePicker(draft.End),
		end:          components.NewTimePicker(draft.End),
		recurringEnd: components.NewDatePicker(event.DefaultRecurringEnd(draft.Start)),
	}
	return m
}

func (m *Popup) Init() tea.Cmd {
	return tea.Batch(m.loadTab(), m.checkAuth())
}

func (m *Popup) loadTab() tea.Cmd {
	return func() tea.Msg {
		if m.tabs == nil {
			return tabLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		info, err := m.tabs.ActiveTab(ctx)
		return tabLoadedMsg{info: info, err: err}
	}
}

func (m *Popup) checkAuth() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		token, err := m.tokens.TokenSilent(ctx)
		if err != nil {
			log.WithError(err).Debug("silent token probe failed")
		}
		return authCheckedMsg{signedIn: token != nil}
	}
}

func (m *Popup) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tabLoadedMsg:
		if msg.err != nil {
			log.WithError(msg.err).Warn("tab capture failed")
			m.initFailed = true
			m.setNotice(noticeError, "Could not detect the active browser tab. Close the popup and retry, or pass --title/--url.")
			return m, nil
		}
		m.applyTab(msg.info)
		return m, nil

	case authCheckedMsg:
		m.signedIn = msg.signedIn
		return m, nil

	case eventCreatedMsg:
		m.state = stateDone
		m.setNotice(noticeSuccess, "Event created")
		var cmds []tea.Cmd
		if m.cfg.DesktopNotifications {
			title := strings.TrimSpace(m.title.Value())
			cmds = append(cmds, func() tea.Msg {
				if err := notify.Send("Event created", title); err != nil {
					log.WithError(err).Debug("desktop notification failed")
				}
				return nil
			})
		}
		cmds = append(cmds, tea.Tick(2*time.Second, func(time.Time) tea.Msg {
			return doneTickMsg{}
		}))
		return m, tea.Batch(cmds...)

	case submitErrMsg:
		m.state = stateEditing
		m.setNotice(noticeError, submitErrorText(msg.err))
		return m, nil

	case doneTickMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateEditing {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m *Popup) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateEditing:
		return m.handleEditingKeys(msg)
	case statePreviewing:
		return m.handlePreviewKeys(msg)
	case stateDone:
		return m, tea.Quit
	}
	// Submitting ignores input until the round trip resolves.
	return m, nil
}

func (m *Popup) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, tea.Quit

	case "tab":
		m.moveFocus(1)
		return m, nil

	case "shift+tab":
		m.moveFocus(-1)
		return m, nil

	case "enter":
		switch m.focusIdx {
		case focusPreview:
			return m.enterPreview()
		case focusCreate:
			return m.submit()
		default:
			m.moveFocus(1)
			return m, nil
		}

	case "ctrl+p":
		return m.enterPreview()

	case "ctrl+s":
		return m.submit()
	}

	if m.focusIdx == focusRecurring {
		switch msg.String() {
		case "left", "h":
			m.cycleFrequency(-1)
			return m, nil
		case "right", "l", " ":
			m.cycleFrequency(1)
			return m, nil
		}
	}

	return m.updateInputs(msg)
}

func (m *Popup) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "e":
		m.state = stateEditing
		return m, nil
	case "enter", "c":
		return m.submit()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Popup) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.title, cmd = m.title.Update(msg)
	cmds = append(cmds, cmd)
	m.description, cmd = m.description.Update(msg)
	cmds = append(cmds, cmd)

	var dateChanged, endDateChanged bool
	m.date, dateChanged = m.date.Update(msg)
	m.start, _ = m.start.Update(msg)
	m.endDate, endDateChanged = m.endDate.Update(msg)
	m.end, _ = m.end.Update(msg)
	m.recurringEnd, _ = m.recurringEnd.Update(msg)

	// The end date tracks the start date until the user edits it directly.
	if endDateChanged {
		m.endDateTouched = true
	}
	if dateChanged && !m.endDateTouched {
		m.endDate.SetDate(m.date.Value())
	}

	return m, tea.Batch(cmds...)
}

// applyTab prefills the draft from the captured page. Fields the user has
// already typed into are left alone.
func (m *Popup) applyTab(info TabInfo) {
	if info.Title != "" && m.title.Value() == "" {
		m.title.SetValue(info.Title)
	}
	if info.URL != "" && m.description.Value() == "" {
		m.description.SetValue("Source: " + info.URL)
	}
}

func (m *Popup) frequency() event.Frequency {
	freqs := event.Frequencies()
	if m.freqIdx < 0 || m.freqIdx >= len(freqs) {
		return event.FreqNone
	}
	return freqs[m.freqIdx]
}

func (m *Popup) cycleFrequency(delta int) {
	freqs := event.Frequencies()
	m.freqIdx = (m.freqIdx + delta + len(freqs)) % len(freqs)
	if m.frequency() != event.FreqNone {
		// Each switch into a repeating frequency re-seeds the cutoff from
		// the current start date.
		m.recurringEnd.SetDate(event.DefaultRecurringEnd(m.startTime()))
	}
}

func (m *Popup) recurringEndVisible() bool {
	return m.frequency() != event.FreqNone
}

func (m *Popup) moveFocus(delta int) {
	count := focusCreate + 1
	idx := m.focusIdx
	for {
		idx = (idx + delta + count) % count
		if idx == focusRecurringEnd && !m.recurringEndVisible() {
			continue
		}
		break
	}
	m.focusIdx = idx
	m.applyFocus()
}

func (m *Popup) applyFocus() {
	m.title.Blur()
	m.description.Blur()
	m.date.Blur()
	m.start.Blur()
	m.endDate.Blur()
	m.end.Blur()
	m.recurringEnd.Blur()

	switch m.focusIdx {
	case focusTitle:
		m.title.Focus()
	case focusDescription:
		m.description.Focus()
	case focusDate:
		m.date.Focus()
	case focusStart:
		m.start.Focus()
	case focusEndDate:
		m.endDate.Focus()
	case focusEnd:
		m.end.Focus()
	case focusRecurringEnd:
		m.recurringEnd.Focus()
	}
}

func (m *Popup) startTime() time.Time {
	d := m.date.Value()
	return time.Date(d.Year(), d.Month(), d.Day(), m.start.Hour(), m.start.Minute(), 0, 0, time.Local)
}

func (m *Popup) endTime() time.Time {
	d := m.endDate.Value()
	return time.Date(d.Year(), d.Month(), d.Day(), m.end.Hour(), m.end.Minute(), 0, 0, time.Local)
}

// draft assembles the current form state into an event draft.
func (m *Popup) draft() event.Draft {
	d := event.Draft{
		Title:       strings.TrimSpace(m.title.Value()),
		Description: strings.TrimSpace(m.description.Value()),
		Start:       m.startTime(),
		End:         m.endTime(),
		Recurring:   m.frequency(),
	}
	if d.Recurring != event.FreqNone {
		d.RecurringEnd = m.recurringEnd.Value()
	}
	return d
}

func (m *Popup) enterPreview() (tea.Model, tea.Cmd) {
	if m.initFailed {
		return m, nil
	}
	if err := m.draft().Validate(); err != nil {
		m.setNotice(noticeError, err.Error())
		return m, nil
	}
	m.notice = notice{}
	m.state = statePreviewing
	return m, nil
}

func (m *Popup) submit() (tea.Model, tea.Cmd) {
	if m.initFailed {
		return m, nil
	}
	draft := m.draft()
	if err := draft.Validate(); err != nil {
		m.state = stateEditing
		m.setNotice(noticeError, err.Error())
		return m, nil
	}
	m.notice = notice{}
	m.state = stateSubmitting
	return m, m.createEvent(draft)
}

func (m *Popup) createEvent(draft event.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		token, err := m.tokens.TokenSilent(ctx)
		if err != nil {
			return submitErrMsg{err}
		}
		if token == nil {
			token, err = m.tokens.TokenInteractive(ctx)
			if err != nil {
				return submitErrMsg{err}
			}
		}

		client := m.newClient(ctx, token)
		created, err := client.CreateEvent(ctx, draft)
		if err != nil {
			return submitErrMsg{err}
		}
		log.WithField("id", created.ID).Info("event created")
		return eventCreatedMsg{created}
	}
}

func (m *Popup) setNotice(kind noticeKind, text string) {
	m.notice = notice{text: text, kind: kind}
}

// submitErrorText turns a submit failure into the one-line notice shown
// under the form.
func submitErrorText(err error) string {
	var authErr *auth.Error
	if errors.As(err, &authErr) {
		return "Sign-in failed: " + authErr.Error() + ". Sign in again and grant calendar access."
	}
	var remoteErr *calendar.RemoteError
	if errors.As(err, &remoteErr) {
		return "Calendar rejected the event: " + remoteErr.Message
	}
	var valErr *event.ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	return "Could not create event: " + err.Error()
}
