package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/endoreels/reelplayer/internal/config"
	"github.com/endoreels/reelplayer/internal/engine"
	"github.com/endoreels/reelplayer/internal/errmsg"
	"github.com/endoreels/reelplayer/internal/history"
	"github.com/endoreels/reelplayer/internal/loader"
	"github.com/endoreels/reelplayer/internal/probe"
	"github.com/endoreels/reelplayer/internal/session"
	"github.com/endoreels/reelplayer/internal/validate"
)

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type tickMsg time.Time

type stateMsg loader.StateChange

type model struct {
	cfg      *config.Config
	loader   *loader.Loader
	sub      *loader.Subscription
	journal  *history.Manager
	spinner  spinner.Model
	locator  string
	state    loader.State
	loadErr  error
	started  time.Time
	recorded bool
	width    int
}

func initialModel(locator string) (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	log := zerolog.New(io.Discard)
	if cfg.LogFile != "" {
		if f, ferr := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); ferr == nil {
			log = zerolog.New(f).With().Timestamp().Logger()
		}
	}

	var journal *history.Manager
	if hcfg := cfg.GetHistoryConfig(); !hcfg.Disabled {
		journal, err = history.Open(hcfg)
		if err != nil {
			// History is a convenience; a broken journal must not block playback.
			log.Warn().Err(err).Msg(string(errmsg.OpHistoryOpen))
			journal = nil
		}
	}

	v := validate.New(&probe.FFProbe{Binary: cfg.FFprobe}, log)
	eng := engine.New(cfg.FFplay, log)
	owner := session.NewOwner(eng, log)
	ld := loader.New(v, owner, log)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := model{
		cfg:     cfg,
		loader:  ld,
		sub:     ld.Subscribe(),
		journal: journal,
		spinner: sp,
		locator: locator,
	}
	m.prepare()
	return m, nil
}

// prepare kicks off a fresh load attempt for the configured locator.
func (m *model) prepare() {
	m.started = time.Now()
	m.recorded = false
	m.loader.Prepare(m.locator, loader.Options{
		AutoPlay: m.cfg.AutoPlayEnabled(),
		Timeout:  m.cfg.LoadTimeout(),
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForState(m.sub))
}

func waitForState(sub *loader.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-sub.StateChanged:
			return stateMsg(ev)
		case <-sub.Done:
			return nil
		}
	}
}

// togglePlayback drives the space key: it starts playback on a clip that
// is ready but not yet playing (auto_play off), and pauses or resumes an
// active one.
func togglePlayback(p engine.Interface) {
	if p == nil {
		return
	}
	if p.State() == engine.Loaded {
		_ = p.Play()
		return
	}
	p.Toggle()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case stateMsg:
		m.state = msg.Current
		m.loadErr = msg.Err
		m.record()
		cmds := []tea.Cmd{waitForState(m.sub)}
		if m.state == loader.StateReady {
			cmds = append(cmds, tickCmd())
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.loader.Close()
			if m.journal != nil {
				m.journal.Close()
			}
			return m, tea.Quit
		case " ":
			togglePlayback(m.loader.Player())
		case "s":
			m.loader.Teardown()
			m.state = loader.StateIdle
			m.loadErr = nil
		case "r":
			m.prepare()
		}

	case tickMsg:
		if m.state == loader.StateReady {
			return m, tickCmd()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// record journals the attempt outcome once per terminal transition.
func (m *model) record() {
	if m.journal == nil || m.recorded || !m.state.Terminal() {
		return
	}
	m.recorded = true

	a := history.Attempt{
		Path:    m.locator,
		Elapsed: time.Since(m.started),
	}
	title := filepath.Base(m.locator)
	if m.state == loader.StateReady {
		a.Outcome = history.OutcomeReady
		if p := m.loader.Player(); p != nil {
			a.ClipDuration = p.Duration()
			if clip := p.Clip(); clip != nil {
				title = clip.Title()
			}
		}
	} else {
		a.Outcome = validate.KindOf(m.loadErr).String()
		a.Message = errmsg.Describe(m.loadErr)
	}
	_ = m.journal.RecordAttempt(a, title)
}

func (m model) View() string {
	header := dimStyle.Render(fmt.Sprintf(" reelplayer — %s", filepath.Base(m.locator)))

	var body string
	switch m.state {
	case loader.StateLoading:
		body = fmt.Sprintf(" %s validating %s", m.spinner.View(), m.locator)
	case loader.StateFailed:
		body = errorStyle.Render(fmt.Sprintf(" ✗ %s", errmsg.Describe(m.loadErr))) +
			dimStyle.Render("  (r to retry, q to quit)")
	case loader.StateReady:
		body = m.playerBar()
	default:
		body = dimStyle.Render(" stopped  (r to reload, q to quit)")
	}

	return header + "\n\n" + body + "\n"
}

func (m model) playerBar() string {
	p := m.loader.Player()
	if p == nil {
		return ""
	}

	status := "▶"
	if p.State() == engine.Paused {
		status = "⏸"
	}

	left := fmt.Sprintf(" %s  %s", status, filepath.Base(m.locator))
	if clip := p.Clip(); clip != nil && clip.SizeBytes > 0 {
		left += dimStyle.Render("  " + humanize.Bytes(uint64(clip.SizeBytes)))
	}
	right := fmt.Sprintf("%s / %s ", formatDuration(p.Position()), formatDuration(p.Duration()))

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}
	padding := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}

	content := left + strings.Repeat(" ", padding) + right
	return playerBarStyle.Width(innerWidth).Render(content)
}

func formatDuration(d time.Duration) string {
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: reelplayer <clip>")
		os.Exit(2)
	}

	m, err := initialModel(os.Args[1])
	if err != nil {
		fmt.Printf("Error initializing: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
