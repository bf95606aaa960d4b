// Package tui implements the interactive workbook viewer: the grid, mouse
// range selection with drag auto-scroll, the hover and context menus, and
// the annotation dialogs.
package tui

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/colonyops/sheetmark/internal/core/annotation"
	"github.com/colonyops/sheetmark/internal/core/autoscroll"
	"github.com/colonyops/sheetmark/internal/core/cellref"
	"github.com/colonyops/sheetmark/internal/core/config"
	"github.com/colonyops/sheetmark/internal/core/hovermenu"
	"github.com/colonyops/sheetmark/internal/core/logging"
	"github.com/colonyops/sheetmark/internal/core/notify"
	"github.com/colonyops/sheetmark/internal/core/selection"
	"github.com/colonyops/sheetmark/internal/sheetmark"
	"github.com/colonyops/sheetmark/pkg/schedule"
)

// UIState represents the current input mode of the viewer.
type UIState int

const (
	stateNormal UIState = iota
	stateContextMenu
	stateDialog
	stateViewing
	stateHelp
)

// WorkbookOpener reopens the workbook on reload.
type WorkbookOpener interface {
	Open(ctx context.Context, opts sheetmark.OpenOptions) (*sheetmark.Workbook, error)
}

// Options configures the viewer.
type Options struct {
	Opener   WorkbookOpener        // enables ctrl+r reload (optional)
	Open     sheetmark.OpenOptions // how the workbook was opened
	Warnings []string              // startup warnings shown as toasts
	Watcher  *FileWatcher          // reloads when the local file changes (optional)
}

// Model is the bubbletea model of the workbook viewer. All of its state,
// including the selection, the auto-scroll engine, the hover menu and the
// timer loop that drives them, is only touched from Update.
type Model struct {
	cfg     *config.Config
	wb      *sheetmark.Workbook
	opener  WorkbookOpener
	open    sheetmark.OpenOptions
	watcher *FileWatcher
	log     zerolog.Logger

	loop   *schedule.Loop
	view   *gridView
	sel    *selection.Controller
	engine *autoscroll.Engine
	hover  *hovermenu.Controller
	keys   keyMap
	help   help.Model

	toasts    *ToastController
	toastView *ToastView

	state       UIState
	ctxMenu     *menu
	hoverMenu   *menu
	hoverKey    string
	inHoverMenu bool
	dialog      *dialog
	viewer      *evidenceViewer

	sheets     []string
	sheetIdx   int
	styleCache map[string]lipgloss.Style

	width, height int
	reloading     bool
	quitting      bool
}

// workbookFinder resolves hover targets against whichever workbook is
// currently loaded, so reloads do not need a new hover controller.
type workbookFinder struct{ m *Model }

func (f workbookFinder) FindCovering(kind annotation.Kind, sheet string, cell cellref.Cell) *annotation.RangeEvidence {
	return f.m.wb.Store.FindCovering(kind, sheet, cell)
}

func New(cfg *config.Config, wb *sheetmark.Workbook, opts Options) *Model {
	loop := schedule.NewLoop()
	view := newGridView(cfg.Grid.ColumnWidth)

	m := &Model{
		cfg:        cfg,
		opener:     opts.Opener,
		open:       opts.Open,
		watcher:    opts.Watcher,
		log:        logging.Component("tui"),
		loop:       loop,
		view:       view,
		sel:        selection.New(""),
		keys:       defaultKeyMap(),
		help:       help.New(),
		toasts:     NewToastController(),
		styleCache: make(map[string]lipgloss.Style),
	}
	m.toastView = NewToastView(m.toasts)

	curve := autoscroll.DefaultCurve()
	curve.MinSpeed = cfg.AutoScroll.MinSpeed
	curve.MaxSpeed = cfg.AutoScroll.MaxSpeed
	curve.MaxDistance = cfg.AutoScroll.MaxDistance
	m.engine = autoscroll.New(view, view, m.sel, loop, autoscroll.Options{
		Curve:         curve,
		FrameInterval: cfg.AutoScroll.FrameInterval,
	})
	m.hover = hovermenu.New(workbookFinder{m: m}, loop, cfg.Hover.HideDelay)

	m.setWorkbook(wb)
	for _, w := range opts.Warnings {
		m.toasts.Push(notify.New(notify.LevelWarning, w))
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.ensureToastTick(), m.watcher.Start())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.syncHoverMenu()
	return m, tea.Batch(cmd, m.scheduleTimers())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.setSize(msg.Width, msg.Height)
		if m.dialog != nil {
			return m.dialog.update(msg)
		}
		return nil

	case timerFiredMsg:
		m.loop.Fire(msg.handle)
		return nil

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return nil

	case mutationResultMsg:
		return m.handleMutation(msg)

	case evidenceLoadedMsg:
		return m.handleEvidenceLoaded(msg)

	case workbookFileChangedMsg:
		m.log.Info().Msg("workbook file changed on disk")
		return tea.Batch(m.reload(), m.watcher.Start())

	case reloadedMsg:
		m.reloading = false
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("reload failed")
			return m.notify(notify.New(notify.LevelError, "Reload failed: %v", msg.err))
		}
		m.setWorkbook(msg.wb)
		return m.notify(notify.New(notify.LevelSuccess, "Workbook reloaded"))

	case tea.BlurMsg:
		m.endDrag()
		return nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	if m.state == stateDialog {
		return m.afterDialog(m.dialog.update(msg))
	}
	return nil
}

// setWorkbook installs a (re)loaded workbook, staying on the current sheet
// when it still exists.
func (m *Model) setWorkbook(wb *sheetmark.Workbook) {
	current := m.activeSheet()
	m.wb = wb
	m.sheets = wb.Grid.SheetNames()

	idx := 0
	for i, name := range m.sheets {
		if name == current {
			idx = i
		}
	}
	m.switchSheet(idx)
}

func (m *Model) activeSheet() string {
	if m.sheetIdx < 0 || m.sheetIdx >= len(m.sheets) {
		return ""
	}
	return m.sheets[m.sheetIdx]
}

func (m *Model) switchSheet(idx int) {
	if len(m.sheets) == 0 {
		return
	}
	m.endDrag()
	m.hover.Dismiss()

	m.sheetIdx = idx
	name := m.sheets[idx]
	m.sel.SetSheet(name)
	rows, cols := m.wb.Grid.Dims(name)
	m.view.setDims(rows, cols)
}

func (m *Model) endDrag() {
	if m.sel.Dragging() {
		m.sel.End()
	}
	m.engine.SetButtonDown(false)
	m.engine.Stop()
}

func (m *Model) notify(n notify.Notification) tea.Cmd {
	m.toasts.Push(n)
	return m.ensureToastTick()
}

func (m *Model) ensureToastTick() tea.Cmd {
	if !m.toasts.HasToasts() || m.toasts.Ticking() {
		return nil
	}
	m.toasts.SetTicking(true)
	return scheduleToastTick()
}

func (m *Model) handleMutation(msg mutationResultMsg) tea.Cmd {
	// the annotation under the hover menu may be gone or changed
	m.hover.Dismiss()

	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("workbook_id", m.wb.ID).Msg("annotation change failed")
		return m.notify(notify.New(notify.LevelError, describeError(msg.err)))
	}

	cmds := []tea.Cmd{m.notify(notify.New(notify.LevelSuccess, msg.summary))}
	if msg.warning != nil {
		cmds = append(cmds, m.notify(notify.New(notify.LevelWarning, msg.warning.Error())))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleEvidenceLoaded(msg evidenceLoadedMsg) tea.Cmd {
	if m.viewer == nil {
		return nil
	}
	if msg.err != nil {
		m.viewer.loading = false
		return m.notify(notify.New(notify.LevelWarning, "Could not load linked files: %v", msg.err))
	}
	if msg.ev.ID == m.viewer.ev.ID {
		m.viewer.setEvidence(msg.ev)
	}
	return nil
}

func describeError(err error) string {
	if errors.Is(err, sheetmark.ErrNoService) {
		return "No evidence service configured; annotations are read-only"
	}
	return err.Error()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.state {
	case stateDialog:
		if key.Matches(msg, m.keys.Escape) {
			m.closeOverlay()
			return nil
		}
		return m.afterDialog(m.dialog.update(msg))

	case stateViewing:
		if key.Matches(msg, m.keys.Escape) || msg.String() == "q" {
			m.closeOverlay()
			return nil
		}
		return m.viewer.update(msg)

	case stateHelp:
		if key.Matches(msg, m.keys.Escape, m.keys.Help, m.keys.Quit) {
			m.state = stateNormal
		}
		return nil

	case stateContextMenu:
		return m.contextMenuKey(msg)
	}

	return m.normalKey(msg)
}

func (m *Model) normalKey(msg tea.KeyPressMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.engine.Reset()
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.hover.Dismiss()
		m.state = stateHelp
	case key.Matches(msg, k.Escape):
		if m.hover.Shown() {
			m.hover.Dismiss()
		} else {
			m.sel.Clear()
		}
	case key.Matches(msg, k.Dismiss):
		m.toasts.Dismiss()

	case key.Matches(msg, k.Up):
		m.move(-1, 0, false)
	case key.Matches(msg, k.Down):
		m.move(1, 0, false)
	case key.Matches(msg, k.Left):
		m.move(0, -1, false)
	case key.Matches(msg, k.Right):
		m.move(0, 1, false)
	case key.Matches(msg, k.ExtendUp):
		m.move(-1, 0, true)
	case key.Matches(msg, k.ExtendDown):
		m.move(1, 0, true)
	case key.Matches(msg, k.ExtendLeft):
		m.move(0, -1, true)
	case key.Matches(msg, k.ExtendRight):
		m.move(0, 1, true)
	case key.Matches(msg, k.PageUp):
		m.move(-max(1, m.view.bodyHeight()), 0, false)
	case key.Matches(msg, k.PageDown):
		m.move(max(1, m.view.bodyHeight()), 0, false)
	case key.Matches(msg, k.Home):
		m.sel.Clear()
		m.move(0, 0, false)

	case key.Matches(msg, k.NextSheet):
		if n := len(m.sheets); n > 1 {
			m.switchSheet((m.sheetIdx + 1) % n)
		}
	case key.Matches(msg, k.PrevSheet):
		if n := len(m.sheets); n > 1 {
			m.switchSheet((m.sheetIdx - 1 + n) % n)
		}

	case key.Matches(msg, k.AddMapping):
		return m.runAction(actionAddMapping, nil)
	case key.Matches(msg, k.AddReference):
		return m.runAction(actionAddReference, nil)
	case key.Matches(msg, k.View):
		return m.runOnActiveCell(actionView)
	case key.Matches(msg, k.Edit):
		return m.runOnActiveCell(actionEdit)
	case key.Matches(msg, k.Attach):
		return m.runOnActiveCell(actionAttach)
	case key.Matches(msg, k.Delete):
		return m.runOnActiveCell(actionDelete)

	case key.Matches(msg, k.Reload):
		return m.reload()
	}
	return nil
}

// move handles keyboard navigation and keeps the moved corner on screen.
func (m *Model) move(dr, dc int, extend bool) {
	rows, cols := m.wb.Grid.Dims(m.activeSheet())
	m.sel.Move(dr, dc, extend, rows, cols)
	m.hover.Dismiss()

	if sel, ok := m.sel.Active(); ok {
		target := sel.Start
		if extend {
			target = sel.End
		}
		m.view.ensureVisible(target)
	}
}

// runOnActiveCell applies a keyboard action to the annotation covering the
// active cell. Mappings win over references, except for attach which only
// applies to references.
func (m *Model) runOnActiveCell(action menuAction) tea.Cmd {
	sel, ok := m.sel.Active()
	if !ok {
		return m.notify(notify.New(notify.LevelInfo, "Select a cell first"))
	}

	kinds := []annotation.Kind{annotation.KindMapping, annotation.KindReference}
	if action == actionAttach {
		kinds = kinds[1:]
	}
	for _, kind := range kinds {
		if ev := m.wb.Store.FindCovering(kind, sel.Sheet, sel.Start); ev != nil {
			return m.runAction(action, ev)
		}
	}

	if action == actionAttach {
		return m.notify(notify.New(notify.LevelInfo, "No reference at %s", sel.Start))
	}
	return m.notify(notify.New(notify.LevelInfo, "No annotation at %s", sel.Start))
}

// runAction performs a menu or keyboard action.
func (m *Model) runAction(action menuAction, target *annotation.RangeEvidence) tea.Cmd {
	switch action {
	case actionAddMapping, actionAddReference:
		kind := annotation.KindMapping
		if action == actionAddReference {
			kind = annotation.KindReference
		}
		rng, ok := m.sel.ActiveRange()
		if !ok {
			return m.notify(notify.New(notify.LevelInfo, "Select a range first"))
		}
		return m.openDialog(newCreateDialog(kind, m.sel.Sheet(), rng, m.cfg.Colors.MappingDefault))
	}

	if target == nil {
		return nil
	}
	switch action {
	case actionView:
		return m.openViewer(*target)
	case actionEdit:
		return m.openDialog(newEditDialog(*target, m.cfg.Colors.MappingDefault))
	case actionAttach:
		return m.openDialog(newAttachDialog(*target))
	case actionDelete:
		return m.openDialog(newDeleteDialog(*target))
	}
	return nil
}

func (m *Model) openDialog(d *dialog) tea.Cmd {
	m.closeOverlay()
	m.endDrag()
	m.dialog = d
	m.state = stateDialog
	return d.Init()
}

func (m *Model) openViewer(ev annotation.RangeEvidence) tea.Cmd {
	m.closeOverlay()
	m.endDrag()
	m.viewer = newEvidenceViewer(ev, m.cfg.Colors.MappingDefault, m.width, m.height)
	m.state = stateViewing
	return fetchEvidenceCmd(m.wb.Store, ev.ID)
}

// afterDialog closes a finished dialog and starts its mutation.
func (m *Model) afterDialog(cmd tea.Cmd) tea.Cmd {
	d := m.dialog
	if d == nil {
		return cmd
	}
	switch {
	case d.completed():
		m.closeOverlay()
		return d.submit(m.wb.Store)
	case d.aborted():
		m.closeOverlay()
		return nil
	}
	return cmd
}

// closeOverlay returns to normal mode, dropping menus and dialogs.
func (m *Model) closeOverlay() {
	m.state = stateNormal
	m.ctxMenu = nil
	m.dialog = nil
	m.viewer = nil
	m.hover.Dismiss()
}

func (m *Model) reload() tea.Cmd {
	if m.opener == nil {
		return m.notify(notify.New(notify.LevelInfo, "Reload is not available"))
	}
	if m.reloading {
		return nil
	}
	m.reloading = true
	return reloadCmd(m.opener, m.open)
}

// syncHoverMenu keeps the rendered hover menu in step with the hover
// controller, which may have changed from a pointer event or a timer.
func (m *Model) syncHoverMenu() {
	t, ok := m.hover.Target()
	if !ok || m.state != stateNormal {
		m.hoverMenu = nil
		m.hoverKey = ""
		m.inHoverMenu = false
		return
	}

	tx, ty, visible := m.view.origin(t.Anchor)
	if !visible {
		m.hover.Dismiss()
		m.hoverMenu = nil
		m.hoverKey = ""
		m.inHoverMenu = false
		return
	}

	hk := t.Evidence.ID + "@" + t.Anchor.String()
	if m.hoverMenu == nil || m.hoverKey != hk {
		m.hoverMenu = newMenu(kindIcon(t.Kind)+" "+t.Evidence.Address(), hoverItems(t.Evidence))
		m.hoverKey = hk
	}
	w, h := m.hoverMenu.size()
	m.hoverMenu.x, m.hoverMenu.y = fitBox(tx, ty+1, w, h, m.width, m.height-chromeBottom)
}
