package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/PizzaHomicide/playstate/internal/mediaerr"
	"github.com/PizzaHomicide/playstate/internal/provider"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/playstate/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/styles"
	"github.com/PizzaHomicide/playstate/internal/ui/tui/util"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PlayerModel shows the state of the current source.  It is fed exclusively by provider signals.
type PlayerModel struct {
	width, height int

	source provider.Source
	index  int
	total  int

	state     provider.State
	duration  float64
	position  float64
	buffer    float64
	volume    int
	muted     bool
	seeking   bool
	ready     bool
	mediaType string
	lastErr   *mediaerr.Error
	status    string

	progress progress.Model
	spinner  spinner.Model
}

// NewPlayerModel creates a player model with nothing loaded
func NewPlayerModel(volume int, muted bool) *PlayerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	return &PlayerModel{
		index:    -1,
		state:    provider.StateIdle,
		duration: math.NaN(),
		volume:   volume,
		muted:    muted,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		spinner:  s,
	}
}

func (m *PlayerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update advances the spinner
func (m *PlayerModel) Update(msg tea.Msg) tea.Cmd {
	if tick, ok := msg.(spinner.TickMsg); ok {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(tick)
		return cmd
	}
	return nil
}

func (m *PlayerModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.progress.Width = max(width-8, 10)
}

// SetSource switches to a new current source, clearing everything learned about the previous one
func (m *PlayerModel) SetSource(src provider.Source, index, total int) {
	m.total = total
	if index == m.index {
		return
	}
	m.source = src
	m.index = index
	m.duration = math.NaN()
	m.position = 0
	m.buffer = 0
	m.seeking = false
	m.ready = false
	m.mediaType = src.Type
	m.lastErr = nil
}

// SetStatus shows a transient status line, for example a failed command
func (m *PlayerModel) SetStatus(status string) {
	m.status = status
}

// Apply folds a provider signal into the view state
func (m *PlayerModel) Apply(ev provider.Event) {
	switch ev.Signal {
	case provider.SignalBufferFull:
		m.ready = true
	case provider.SignalMeta:
		if meta, ok := ev.Payload.(provider.MetaPayload); ok {
			m.duration = meta.Duration
			if meta.Type != "" {
				m.mediaType = meta.Type
			}
		}
	case provider.SignalBuffer:
		if buf, ok := ev.Payload.(provider.BufferPayload); ok {
			m.buffer = buf.BufferPercent
			m.position = buf.Position
		}
	case provider.SignalTime:
		if t, ok := ev.Payload.(provider.TimePayload); ok {
			m.position = t.Position
			m.duration = t.Duration
		}
	case provider.SignalSeek:
		m.seeking = true
		if seek, ok := ev.Payload.(provider.SeekPayload); ok {
			m.position = seek.Position
		}
	case provider.SignalSeeked:
		m.seeking = false
	case provider.SignalVolume:
		if vol, ok := ev.Payload.(provider.VolumePayload); ok {
			m.volume = vol.Volume
			m.muted = vol.Mute
		}
	case provider.SignalStateChanged:
		if st, ok := ev.Payload.(provider.StatePayload); ok {
			m.state = st.Current
			if st.Current == provider.StatePlaying {
				m.status = ""
			}
		}
	case provider.SignalError:
		if err, ok := ev.Payload.(*mediaerr.Error); ok {
			m.lastErr = err
		}
	}
}

// fraction is the played share of the source for the progress bar
func (m *PlayerModel) fraction() float64 {
	if math.IsNaN(m.duration) || math.IsInf(m.duration, 0) || m.duration <= 0 {
		return 0
	}
	return math.Max(0, math.Min(m.position/m.duration, 1))
}

func (m *PlayerModel) View() string {
	var b strings.Builder

	if m.index < 0 {
		b.WriteString(styles.Muted.Render("No source loaded"))
	} else {
		title := fmt.Sprintf("%s  (%d/%d)", m.source.Name(), m.index+1, m.total)
		b.WriteString(styles.Current.Render(util.TruncateString(title, max(m.width-6, 10))))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.StateBadge(m.state.String()))
	if m.state == provider.StateLoading || m.state == provider.StateStalled || m.seeking {
		b.WriteString(" " + m.spinner.View())
	}
	if m.mediaType != "" {
		b.WriteString("  " + styles.Muted.Render(m.mediaType))
	}
	if m.ready {
		b.WriteString("  " + styles.Muted.Render("ready"))
	}
	b.WriteString("\n\n")

	if math.IsInf(m.duration, 1) {
		b.WriteString(styles.Info.Render("● LIVE  " + util.FormatPlaybackTime(m.position)))
	} else {
		b.WriteString(m.progress.ViewAs(m.fraction()))
		b.WriteString("\n")
		b.WriteString(styles.Info.Render(util.FormatPlaybackTime(m.position) + " / " + util.FormatPlaybackTime(m.duration)))
	}
	b.WriteString("\n\n")

	volume := fmt.Sprintf("Volume %d%%", m.volume)
	if m.muted {
		volume += " (muted)"
	}
	b.WriteString(styles.Info.Render(fmt.Sprintf("Buffer %.0f%%    %s", m.buffer, volume)))

	if m.lastErr != nil {
		b.WriteString("\n\n")
		b.WriteString(styles.Error.Render(fmt.Sprintf("Error %d: %s", m.lastErr.Code, m.lastErr.Message)))
		if m.lastErr.Err != nil {
			b.WriteString("\n" + styles.Muted.Render(m.lastErr.Err.Error()))
		}
	}
	if m.status != "" {
		b.WriteString("\n\n" + styles.Muted.Render(m.status))
	}

	footer := components.KeyBindingsBar(m.width, components.BarFor(kb.ContextPlayer,
		kb.ActionTogglePause,
		kb.ActionSeekBackward,
		kb.ActionSeekForward,
		kb.ActionVolumeDown,
		kb.ActionVolumeUp,
		kb.ActionToggleMute,
		kb.ActionNextSource,
		kb.ActionOpenPlaylist,
	))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		styles.Header(m.width, "Playstate"),
		"",
		styles.ContentBox(max(m.width-2, 20), b.String(), 1),
		"",
		footer,
	)
}
