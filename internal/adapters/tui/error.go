package tui

import (
	"errors"

	"relinker/internal/adapters/tui/styles"
	"relinker/internal/adapters/tui/views"
	"relinker/internal/application"
)

// renderError renders a failure that happened before anything was written
func renderError(err error) string {
	v := views.NewViewBuilder().Title("GUID Relinker")
	v.Line(styles.ErrorMsg.Render("Error: ") + errorText(err))

	switch {
	case errors.Is(err, application.ErrRootNotFound):
		v.Muted("Check RELINKER_SOURCE_GUID and RELINKER_REFERENCE_GUID, and that the index is up to date.")
	case errors.Is(err, application.ErrInvalidOperation):
		v.Muted("Source and reference roots must be two different folders.")
	}

	v.BlankLine()
	v.Muted("Nothing was modified. Press any key to exit.")
	return v.String()
}

func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
