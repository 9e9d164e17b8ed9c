package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/switchmate-tool/internal/ble"
	"github.com/vitaminmoo/switchmate-tool/internal/device"
)

// entry is the latest observation of one device.
type entry struct {
	state    device.State
	rssi     int
	lastSeen time.Time
}

// Model is the Bubbletea model for the live watch view.
type Model struct {
	adverts <-chan ble.Advertisement

	entries map[device.Address]*entry
	order   []device.Address // first-seen order

	scanning bool
	width    int

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// advertMsg delivers one advertisement from the scan goroutine.
type advertMsg ble.Advertisement

// scanDoneMsg signals the scan window has ended.
type scanDoneMsg struct{}

// NewModel creates the watch model reading from the advertisement
// channel until it is closed.
func NewModel(adverts <-chan ble.Advertisement) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		adverts:  adverts,
		entries:  make(map[device.Address]*entry),
		scanning: true,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		styles:   DefaultStyles(),
	}
}

// waitForAdvert blocks on the advertisement channel.
func waitForAdvert(ch <-chan ble.Advertisement) tea.Cmd {
	return func() tea.Msg {
		adv, ok := <-ch
		if !ok {
			return scanDoneMsg{}
		}
		return advertMsg(adv)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForAdvert(m.adverts), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case advertMsg:
		m.observe(ble.Advertisement(msg))
		return m, waitForAdvert(m.adverts)

	case scanDoneMsg:
		m.scanning = false
		return m, nil
	}
	return m, nil
}

// observe folds one advertisement into the table.
func (m *Model) observe(adv ble.Advertisement) {
	addr, err := device.ParseAddress(adv.Address)
	if err != nil {
		return
	}

	e, ok := m.entries[addr]
	if !ok {
		e = &entry{state: device.StateUnknown}
		m.entries[addr] = e
		m.order = append(m.order, addr)
	}

	e.rssi = adv.RSSI
	e.lastSeen = time.Now()
	if on, ok := adv.SwitchStateFromServiceData(); ok {
		if on {
			e.state = device.StateOn
		} else {
			e.state = device.StateOff
		}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Switchmate Watch"))
	b.WriteString("\n\n")

	if m.scanning {
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(),
			m.styles.Subtitle.Render("Listening for advertisements...")))
	} else {
		b.WriteString(m.styles.Subtitle.Render("Scan window ended."))
		b.WriteString("\n\n")
	}

	if len(m.order) == 0 {
		b.WriteString(m.styles.Muted.Render("No Switchmate devices seen yet."))
		b.WriteString("\n")
	}

	for _, addr := range m.order {
		e := m.entries[addr]
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			m.styles.Address.Render(addr.String()),
			m.renderState(e.state),
			m.styles.Muted.Render(fmt.Sprintf("rssi %d, seen %s ago",
				e.rssi, time.Since(e.lastSeen).Round(time.Second)))))
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return m.styles.App.Render(b.String())
}

func (m Model) renderState(s device.State) string {
	switch s {
	case device.StateOn:
		return m.styles.On.Render("on ")
	case device.StateOff:
		return m.styles.Off.Render("off")
	default:
		return m.styles.Unknown.Render("?  ")
	}
}
