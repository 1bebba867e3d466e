package ui

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"jfr/internal/domain"
	"jfr/internal/storage"
)

// Viewer displays retry results in an interactive TUI
type Viewer interface {
	View(report *domain.RetryReport) error
}

// RetryViewer browses retried test cases and their failure messages
type RetryViewer struct {
	storage storage.Storage
}

// NewRetryViewer creates a new RetryViewer. Resolved flags are persisted
// through st.
func NewRetryViewer(st storage.Storage) *RetryViewer {
	return &RetryViewer{storage: st}
}

// View displays the retried cases of report
func (rv *RetryViewer) View(report *domain.RetryReport) error {
	if len(report.Details) == 0 {
		color.Green("✓ No known flaky test cases were retried")
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)

	for i := range report.Details {
		list.AddItem(listItemText(report.Details[i], i), "", 0, nil)
	}

	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan).
		SetSecondaryTextColor(tview.Styles.SecondaryTextColor)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false).
		SetWordWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	detailsContainer := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(detailsView, 0, 1, false).
		AddItem(tview.NewBox(), 2, 0, false)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsContainer, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true)

	updateHeader := func() {
		headerView.SetText(headerText(report))
	}

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index < 0 || index >= len(report.Details) {
			return
		}
		statsView.SetText(formatCaseStats(report.Details[index]))
		detailsView.SetText(formatCaseDetails(report.Details[index]))
		detailsView.ScrollToBeginning()
	}

	var saveErr error
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'r' || event.Rune() == 'R' {
				index := list.GetCurrentItem()
				if err := rv.ToggleResolved(report, index); err != nil {
					saveErr = err
					app.Stop()
					return nil
				}
				list.SetItemText(index, listItemText(report.Details[index], index), "")
				updateHeader()
				updateDetails()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(index int, mainText string, secondaryText string, shortcut rune) {
		updateDetails()
	})

	updateHeader()
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("failed to save resolved status: %w", saveErr)
	}
	return nil
}

// ToggleResolved flips the resolved flag of one retried case and saves the
// report
func (rv *RetryViewer) ToggleResolved(report *domain.RetryReport, index int) error {
	if index < 0 || index >= len(report.Details) {
		return nil
	}
	report.Details[index].Resolved = !report.Details[index].Resolved
	if rv.storage == nil {
		return nil
	}
	return rv.storage.Save(report)
}
