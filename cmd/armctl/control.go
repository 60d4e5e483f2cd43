package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"armctl/pkg/command"
	"armctl/pkg/config"
	"armctl/pkg/input"
	"armctl/pkg/link"
	"armctl/pkg/teleop"
)

type ControlCommand struct {
	ConfigFile       string `long:"config" description:"Settings file path (default armctl.json)"`
	Endpoint         string `long:"endpoint" description:"Remote controller websocket URL"`
	TickMs           int    `long:"tick-ms" description:"Driver tick period in milliseconds"`
	GamepadPollMs    int    `long:"gamepad-poll-ms" description:"Gamepad poll period in milliseconds"`
	ReconnectDelayMs int    `long:"reconnect-delay-ms" description:"Delay between reconnect attempts in milliseconds"`
}

const (
	headerHeight = 2 // title + blank line
	panelHeight  = 5 // control panel + blank
	legendHeight = 2 // legend row + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Axis colors for the drive chart.
var axisColors = map[input.Axis]string{
	input.Base:     "196", // red
	input.Shoulder: "208", // orange
	input.Elbow:    "226", // yellow
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	upStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

type controlModel struct {
	ctrl   *teleop.Controller
	lk     *link.Client
	pad    *input.Poller
	inputs *input.State

	chart     *streamlinechart.Model
	width     int
	height    int
	logs      []string
	state     teleop.State
	haveState bool
	quitting  bool
}

// Messages from the background loops
type stateMsg teleop.State

type logMsg struct {
	ch   <-chan string
	text string
}

func waitForState(ctrl *teleop.Controller) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return logMsg{ch: ch, text: <-ch}
	}
}

func (m *controlModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *controlModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - panelHeight - legendHeight - footerHeight - borderSize
	if height < 8 {
		height = 8
	}
	return width, height
}

func (m *controlModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialControlModel(ctrl *teleop.Controller, lk *link.Client, pad *input.Poller, inputs *input.State) controlModel {
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(-command.MagnitudeMax, command.MagnitudeMax),
	)

	for axis, color := range axisColors {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(axis.String(), runes.ThinLineStyle, style)
	}

	return controlModel{
		ctrl:   ctrl,
		lk:     lk,
		pad:    pad,
		inputs: inputs,
		chart:  &chart,
	}
}

func (m controlModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl.Logs()),
		waitForLog(m.lk.Logs()),
		waitForLog(m.pad.Logs()),
	)
}

func (m controlModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "b":
			m.inputs.CycleAxis(input.Base)
		case "s":
			m.inputs.CycleAxis(input.Shoulder)
		case "e":
			m.inputs.CycleAxis(input.Elbow)
		case "up":
			m.inputs.AdjustMagnitude(command.MagnitudeStep)
		case "down":
			m.inputs.AdjustMagnitude(-command.MagnitudeStep)
		case "right":
			m.inputs.AdjustWrist(command.WristStep)
		case "left":
			m.inputs.AdjustWrist(-command.WristStep)
		case "g":
			m.inputs.CycleEffector(input.Gripper)
		case "r":
			m.inputs.CycleEffector(input.Roller)
		case "x":
			m.inputs.Reset()
		}
		return m, nil

	case stateMsg:
		state := teleop.State(msg)
		// Only push chart points per distinct command (freeze when idle)
		if state.Changed || !m.haveState {
			m.chart.PushDataSet(input.Base.String(), signedDrive(state.Snapshot.Base))
			m.chart.PushDataSet(input.Shoulder.String(), signedDrive(state.Snapshot.Shoulder))
			m.chart.PushDataSet(input.Elbow.String(), signedDrive(state.Snapshot.Elbow))
			m.chart.DrawAll()
		}
		m.state = state
		m.haveState = true
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(msg.text)
		return m, waitForLog(msg.ch)
	}

	return m, nil
}

// signedDrive folds a direction/magnitude pair into one plottable value:
// forward positive, backward negative.
func signedDrive(c command.AxisCommand) float64 {
	return float64(2*c.Dir-1) * float64(c.Magnitude)
}

func (m controlModel) View() string {
	if m.quitting {
		return "Operator console stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("armctl"))
	sb.WriteString(fmt.Sprintf(" - %s tick", m.ctrl.Tick()))
	sb.WriteString("  " + m.renderLinkStatus())
	sb.WriteString("  " + m.renderGamepadStatus())
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [%dx%d]", m.width, m.height)))
	}
	sb.WriteString("\n\n")

	// Control panel
	sb.WriteString(m.renderControls())
	sb.WriteString("\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(m.width - 4).
		Foreground(lipgloss.Color("9"))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func (m controlModel) renderLinkStatus() string {
	state := m.lk.State()
	switch state {
	case link.Connected:
		return upStyle.Render("🟢 connected")
	case link.Connecting:
		return statusStyle.Render("🟡 connecting")
	default:
		return downStyle.Render("🔴 " + state.String())
	}
}

func (m controlModel) renderGamepadStatus() string {
	if m.pad.Present() {
		return upStyle.Render("🎮 gamepad")
	}
	return statusStyle.Render("🎮 none")
}

func (m controlModel) renderControls() string {
	c := m.inputs.View()
	tip := m.state.Skeleton.Tip()

	line1 := fmt.Sprintf("%s base %-8s  %s shoulder %-8s  %s elbow %-8s",
		keyStyle.Render("[b]"), c.Base,
		keyStyle.Render("[s]"), c.Shoulder,
		keyStyle.Render("[e]"), c.Elbow)
	line2 := fmt.Sprintf("%s magnitude %4d   %s wrist %3d°",
		keyStyle.Render("[↑/↓]"), c.Magnitude,
		keyStyle.Render("[←/→]"), c.Wrist)
	line3 := fmt.Sprintf("%s gripper %-6s  %s roller %-6s  %s reset",
		keyStyle.Render("[g]"), c.Gripper,
		keyStyle.Render("[r]"), c.Roller,
		keyStyle.Render("[x]"))
	line4 := statusStyle.Render(fmt.Sprintf("tip x=%.1f y=%.1f z=%.1f", tip.X, tip.Y, tip.Z))

	return line1 + "\n" + line2 + "\n" + line3 + "\n" + line4
}

func renderLegend() string {
	var items []string
	for _, axis := range []input.Axis{input.Base, input.Shoulder, input.Elbow} {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[axis])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+axis.String())
	}
	return strings.Join(items, "  ")
}

func (c *ControlCommand) Execute(args []string) error {
	cfg := c.settings()

	inputs := input.NewState()
	lk := link.New(link.Config{
		Endpoint:       cfg.Endpoint,
		ReconnectDelay: cfg.ReconnectDelay(),
	})
	pad := input.NewPoller(inputs, input.PollerConfig{
		PollInterval: cfg.GamepadPoll(),
	})

	ctrl, err := teleop.NewController(teleop.Config{
		Inputs:  inputs,
		Sender:  lk,
		Gamepad: pad.Present,
		Tick:    cfg.Tick(),
	})
	if err != nil {
		log.Fatalf("Failed to create controller: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go lk.Run(ctx)
	go pad.Run(ctx)
	go func() {
		if err := ctrl.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Controller error: %v", err)
		}
	}()

	p := tea.NewProgram(initialControlModel(ctrl, lk, pad, inputs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}

	// Let the link say goodbye before the process exits.
	cancel()
	deadline := time.Now().Add(time.Second)
	for lk.State() != link.Closed && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// settings resolves the config file plus any flag overrides.
func (c *ControlCommand) settings() config.Config {
	var cfg config.Config
	var err error
	switch {
	case c.ConfigFile != "":
		cfg, err = config.LoadFrom(c.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	case config.Exists():
		cfg, err = config.Load()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	default:
		cfg = config.Default()
	}

	if c.Endpoint != "" {
		cfg.Endpoint = c.Endpoint
	}
	if c.TickMs > 0 {
		cfg.TickMs = c.TickMs
	}
	if c.GamepadPollMs > 0 {
		cfg.GamepadPollMs = c.GamepadPollMs
	}
	if c.ReconnectDelayMs > 0 {
		cfg.ReconnectDelayMs = c.ReconnectDelayMs
	}
	return cfg
}
