package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"relinker/internal/adapters/tui/views"
	"relinker/internal/application/commands"
	"relinker/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewPlanning ViewState = iota
	ViewConfirm
	ViewRelinking
	ViewReport
	ViewError
	ViewHelp
)

// Runner plans and performs relinks
type Runner interface {
	Plan(ctx context.Context, observer ports.ProgressObserver) (*commands.PlanResult, error)
	Relink(ctx context.Context, observer ports.ProgressObserver) (*commands.RelinkResult, error)
}

var interruptKey = key.NewBinding(key.WithKeys("ctrl+c"))

// App is the main TUI application model
type App struct {
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	state    ViewState
	progress *views.ProgressModel
	confirm  *views.ConfirmationModel
	report   *views.ReportModel
	help     *views.HelpModel
	err      error

	// View to return to when help closes
	prevState ViewState

	// Result of the last relink, nil until one finished
	Result *commands.RelinkResult

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(ctx context.Context, runner Runner) *App {
	ctx, cancel := context.WithCancel(ctx)
	return &App{
		runner:   runner,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan tea.Msg, 64),
		state:    ViewPlanning,
		progress: views.NewProgressModel(),
		confirm:  views.NewConfirmationModel(),
		report:   views.NewReportModel(),
		help:     views.NewHelpModel(),
	}
}

// Init starts planning
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.progress.Start("Matching trees and scanning references..."),
		a.startPlan(),
		a.listen(),
	)
}

// State returns the current view
func (a *App) State() ViewState {
	return a.state
}

// Err returns the error that ended planning or relinking, if any
func (a *App) Err() error {
	return a.err
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.progress.Update(msg)
		a.confirm.Update(msg)
		a.report.Update(msg)
		a.help.Update(msg)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, interruptKey) {
			// Relinking cannot be interrupted once files are being written
			if a.state == ViewRelinking {
				return a, nil
			}
			a.cancel()
			return a, tea.Quit
		}
		if key.Matches(msg, views.HelpKeys.Open) && (a.state == ViewConfirm || a.state == ViewReport) {
			a.prevState = a.state
			a.state = ViewHelp
			return a, nil
		}

	case views.CloseHelpMsg:
		a.state = a.prevState
		return a, nil

	case views.ProgressMsg:
		a.progress.Update(msg)
		return a, a.listen()

	case views.PlanReadyMsg:
		a.confirm.SetPlan(msg.Plan)
		a.state = ViewConfirm
		return a, nil

	case views.ConfirmRelinkMsg:
		a.state = ViewRelinking
		return a, tea.Batch(
			a.progress.Start("Relinking..."),
			a.startRelink(),
			a.listen(),
		)

	case views.RelinkDoneMsg:
		a.Result = msg.Result
		a.err = msg.Err
		if msg.Result != nil {
			a.report.SetReport(msg.Result.Report, msg.Err)
		} else {
			a.report.SetReport(nil, msg.Err)
		}
		a.state = ViewReport
		return a, nil

	case views.ErrMsg:
		a.err = msg.Err
		a.state = ViewError
		return a, nil

	case views.QuitMsg:
		a.cancel()
		return a, tea.Quit
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewPlanning, ViewRelinking:
		_, cmd = a.progress.Update(msg)
	case ViewConfirm:
		_, cmd = a.confirm.Update(msg)
	case ViewReport:
		_, cmd = a.report.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	case ViewError:
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, func() tea.Msg { return views.QuitMsg{} }
		}
	}

	return a, cmd
}

// listen waits for the next event from the running command
func (a *App) listen() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

func (a *App) startPlan() tea.Cmd {
	return func() tea.Msg {
		go func() {
			plan, err := a.runner.Plan(a.ctx, &observer{events: a.events})
			if err != nil {
				a.events <- views.ErrMsg{Err: err}
				return
			}
			a.events <- views.PlanReadyMsg{Plan: plan}
		}()
		return nil
	}
}

func (a *App) startRelink() tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Detached from a.ctx: the relink itself decides when to stop
			result, err := a.runner.Relink(context.WithoutCancel(a.ctx), &observer{events: a.events})
			a.events <- views.RelinkDoneMsg{Result: result, Err: err}
		}()
		return nil
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewConfirm:
		return a.confirm.View()
	case ViewReport:
		return a.report.View()
	case ViewError:
		return renderError(a.err)
	case ViewHelp:
		return a.help.View()
	default:
		return a.progress.View()
	}
}

// observer forwards progress to the app. Progress is advisory, so it is
// dropped rather than blocking the command when the UI falls behind.
type observer struct {
	events chan<- tea.Msg
}

func (o *observer) send(msg views.ProgressMsg) {
	select {
	case o.events <- msg:
	default:
	}
}

func (o *observer) Scanned(location string, done, total int) {
	o.send(views.ProgressMsg{Phase: views.PhasePlanning, Label: location, Done: done, Total: total})
}

func (o *observer) Rewriting(_, dependent string, done, total int) {
	o.send(views.ProgressMsg{Phase: views.PhaseRewriting, Label: dependent, Done: done, Total: total})
}

func (o *observer) PairDone(string, int) {}
