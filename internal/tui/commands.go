package tui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/sheetmark"
)

const requestTimeout = 2 * time.Minute

// mutationResultMsg reports a finished create, update, attach or delete.
// The store has already reloaded by the time it arrives.
type mutationResultMsg struct {
	summary string
	warning error
	err     error
}

// evidenceLoadedMsg carries a freshly fetched annotation for the viewer.
type evidenceLoadedMsg struct {
	ev  annotation.RangeEvidence
	err error
}

// reloadedMsg carries a reopened workbook.
type reloadedMsg struct {
	wb  *sheetmark.Workbook
	err error
}

func requestContext(store *annotation.Store) (context.Context, context.CancelFunc) {
	ctx := logging.WithWorkbookID(context.Background(), store.WorkbookID())
	return context.WithTimeout(ctx, requestTimeout)
}

func createCmd(store *annotation.Store, in annotation.CreateInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(store)
		defer cancel()

		ev, err := store.Create(ctx, in)
		if err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{summary: fmt.Sprintf("Added %s %s", kindTitle(ev.Type), ev.Address())}
	}
}

func createReferenceCmd(store *annotation.Store, in annotation.CreateInput, patterns []string) tea.Cmd {
	return func() tea.Msg {
		uploads, err := sheetmark.ExpandUploads(patterns)
		if err != nil {
			return mutationResultMsg{err: err}
		}

		ctx, cancel := requestContext(store)
		defer cancel()

		res, err := store.CreateReference(ctx, in, uploads)
		if err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{
			summary: fmt.Sprintf("Added reference %s with %d file(s)", res.Evidence.Address(), len(res.EvidenceIDs)),
			warning: res.Warning,
		}
	}
}

func updateCmd(store *annotation.Store, ev annotation.RangeEvidence, patch annotation.Patch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(store)
		defer cancel()

		if _, err := store.Update(logging.WithAnnotationID(ctx, ev.ID), ev.ID, patch); err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{summary: fmt.Sprintf("Updated %s %s", kindTitle(ev.Type), ev.Address())}
	}
}

func attachCmd(store *annotation.Store, ev annotation.RangeEvidence, patterns []string) tea.Cmd {
	return func() tea.Msg {
		uploads, err := sheetmark.ExpandUploads(patterns)
		if err != nil {
			return mutationResultMsg{err: err}
		}

		ctx, cancel := requestContext(store)
		defer cancel()

		res, err := store.AttachUploads(logging.WithAnnotationID(ctx, ev.ID), ev.ID, uploads)
		if err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{
			summary: fmt.Sprintf("Attached %d file(s) to %s", len(res.EvidenceIDs), ev.Address()),
			warning: res.Warning,
		}
	}
}

func removeCmd(store *annotation.Store, ev annotation.RangeEvidence) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(store)
		defer cancel()

		if err := store.Remove(logging.WithAnnotationID(ctx, ev.ID), ev.ID); err != nil {
			return mutationResultMsg{err: err}
		}
		return mutationResultMsg{summary: fmt.Sprintf("Deleted %s %s", kindTitle(ev.Type), ev.Address())}
	}
}

func fetchEvidenceCmd(store *annotation.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := requestContext(store)
		defer cancel()

		ev, err := store.Get(logging.WithAnnotationID(ctx, id), id)
		return evidenceLoadedMsg{ev: ev, err: err}
	}
}

func reloadCmd(opener WorkbookOpener, opts sheetmark.OpenOptions) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		opts.Refresh = true
		wb, err := opener.Open(ctx, opts)
		return reloadedMsg{wb: wb, err: err}
	}
}
