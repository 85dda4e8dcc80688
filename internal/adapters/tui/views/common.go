package views

import "relinker/internal/application/commands"

// ViewState contains common state shared by all view models.
// Embed this struct in view models to get width/height and message handling.
type ViewState struct {
	Width      int
	Height     int
	Message    string
	MessageErr bool
}

// SetSize updates the view dimensions
func (s *ViewState) SetSize(width, height int) {
	s.Width = width
	s.Height = height
}

// SetMessage sets a message to display in the view
func (s *ViewState) SetMessage(msg string, isErr bool) {
	s.Message = msg
	s.MessageErr = isErr
}

// ClearMessage clears the current message
func (s *ViewState) ClearMessage() {
	s.Message = ""
	s.MessageErr = false
}

// Messages shared between views and the app

// ConfirmRelinkMsg asks the app to start the relink
type ConfirmRelinkMsg struct{}

// QuitMsg asks the app to exit
type QuitMsg struct{}

// ProgressMsg carries one progress notification from the running command
type ProgressMsg struct {
	Phase string
	Label string
	Done  int
	Total int
}

// PlanReadyMsg carries the dry-run result
type PlanReadyMsg struct {
	Plan *commands.PlanResult
}

// RelinkDoneMsg carries the relink result. Err is set when the run aborted;
// Result then holds the pairs completed before the abort.
type RelinkDoneMsg struct {
	Result *commands.RelinkResult
	Err    error
}

// ErrMsg reports a failure before any mutation
type ErrMsg struct {
	Err error
}
