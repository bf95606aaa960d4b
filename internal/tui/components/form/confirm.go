package form

import (
	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/sheetmark/internal/core/styles"
)

// Confirm is a yes/no question.
type Confirm struct {
	message   string
	detail    string
	confirmed bool
	cancelled bool
}

func NewConfirm(message, detail string) *Confirm {
	return &Confirm{message: message, detail: detail}
}

// Update handles input for the confirmation.
func (c *Confirm) Update(msg tea.Msg) (*Confirm, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}

	switch keyMsg.String() {
	case "y", "Y", "enter":
		c.confirmed = true
	case "n", "N", "esc":
		c.cancelled = true
	}
	return c, nil
}

func (c *Confirm) View() string {
	out := styles.FormTitleStyle.Render(c.message)
	if c.detail != "" {
		out += "\n" + styles.TextMutedStyle.Render(c.detail)
	}
	return out + "\n\n" + styles.TextPrimaryBoldStyle.Render("Continue? (y/n)")
}

func (c *Confirm) Confirmed() bool { return c.confirmed }

func (c *Confirm) Cancelled() bool { return c.cancelled }
