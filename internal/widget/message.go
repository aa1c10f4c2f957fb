package widget

import (
	"strings"

	"github.com/muurk/fieldkit/internal/form"
	"github.com/muurk/fieldkit/internal/ui"
)

// MessageView draws the message slot of one field: the validation message
// when there is one, otherwise the helper text.
type MessageView struct {
	Message *form.Message
}

func (v MessageView) View() string {
	if v.Message == nil {
		return ""
	}
	if v.Message.HasValidation() {
		return ui.ValidationStyle.Render(v.Message.Text())
	}
	if v.Message.HasMessage() {
		return ui.HelperStyle.Render(v.Message.Text())
	}
	return ""
}

// SummaryView draws the form-level messages as a bulleted box. It renders
// nothing when there are no messages.
type SummaryView struct {
	Summary *form.Summary
	Width   int
}

func (v SummaryView) View() string {
	if v.Summary == nil {
		return ""
	}
	msgs := v.Summary.Messages()
	if len(msgs) == 0 {
		return ""
	}
	items := make([]string, len(msgs))
	for i, m := range msgs {
		items[i] = "• " + m
	}
	style := ui.SummaryStyle
	if v.Width > 4 {
		style = style.Width(v.Width - 4)
	}
	return style.Render(strings.Join(items, "\n"))
}
