// internal/tui/app.go
//
// The main TUI for prefabedit, built on bubbletea's Elm architecture:
// Model (App state) -> Update (messages mutate state) -> View (render).
//
// The App is also the editor "host": it implements the capability
// interfaces the session controller and the save interceptor are built
// against, so the workflow logic itself never touches the terminal.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/prefabworks/prefabedit/internal/asset"
	"github.com/prefabworks/prefabedit/internal/config"
	"github.com/prefabworks/prefabedit/internal/hooks"
	"github.com/prefabworks/prefabedit/internal/logbook"
	"github.com/prefabworks/prefabedit/internal/notify"
	"github.com/prefabworks/prefabedit/internal/savehook"
	"github.com/prefabworks/prefabedit/internal/scene"
	"github.com/prefabworks/prefabedit/internal/session"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateBrowser appState = iota // Template asset browser
	stateEditor                  // Object tree of the active scene
)

// modalKind tracks which overlay owns the keyboard.
type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalInput
)

const (
	liveCheckInterval = time.Second
	projectSceneName  = "main" + scene.Ext
	projectSceneLabel = "Main"
)

// liveTickMsg drives the floating control's liveness check while an
// isolated-edit session is active.
type liveTickMsg time.Time

// App is the main application model. It holds all state.
type App struct {
	state      appState
	config     *config.Config
	logbook    *logbook.Logbook
	store      *asset.Store
	controller *session.Controller
	pipeline   *savehook.Pipeline
	hub        *notify.Hub

	workspace  *scene.Workspace
	selectedID string

	browser   list.Model
	templates []asset.Info

	rows   []treeRow
	cursor int

	modal         modalKind
	confirmPrompt string
	confirmAction func() tea.Cmd
	input         textinput.Model
	inputPrompt   string
	inputAction   func(value string) tea.Cmd

	tickActive bool

	width  int
	height int

	statusMsg string
}

// templateItem implements list.Item for the asset browser.
type templateItem struct {
	info asset.Info
}

func (i templateItem) Title() string       { return i.info.Name }
func (i templateItem) Description() string { return i.info.Path }
func (i templateItem) FilterValue() string { return i.info.Name }

// NewApp wires the editor together from a resolved config. The scratch
// scene path was computed once by the config layer; it is injected into
// the controller and the interceptor here and never looked up again.
func NewApp(cfg *config.Config) (*App, error) {
	book, err := logbook.New(filepath.Join(cfg.LogsDir(), "session.log"))
	if err != nil {
		return nil, err
	}
	store := asset.NewStore(cfg.AssetsDir())

	browser := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	browser.Title = "⬡ TEMPLATES"
	browser.SetShowStatusBar(false)
	browser.SetFilteringEnabled(false)

	input := textinput.New()
	input.CharLimit = 80

	app := &App{
		state:   stateBrowser,
		config:  cfg,
		logbook: book,
		store:   store,
		hub:     notify.NewHub(),
		browser: browser,
		input:   input,
	}
	app.controller = session.NewController(cfg.ScratchScenePath, app, session.WithLogger(book))
	app.hub.Subscribe(func(e notify.Event) {
		app.controller.HandleWorkspaceChanged(e.Path)
	})

	app.pipeline = savehook.NewPipeline(savehook.WithLogger(book))
	app.pipeline.Register("template-sync",
		savehook.NewInterceptor(cfg.ScratchScenePath, app, book).OnBeforeSave)
	if err := hooks.RegisterAll(app.pipeline, cfg.HooksDir()); err != nil {
		// A broken user hook should not keep the editor from starting.
		book.Error("user hooks disabled: %v", err)
	}

	if err := app.openProjectScene(); err != nil {
		return nil, err
	}
	if err := app.refreshTemplates(); err != nil {
		book.Warn("template scan failed: %v", err)
	}
	book.Info("session opened · scratch scene at %s", cfg.ScratchScenePath)
	return app, nil
}

// openProjectScene loads (or creates) the default project scene so there
// is always a prior workspace to come back to.
func (a *App) openProjectScene() error {
	path := filepath.Join(a.config.ProjectDir, projectSceneName)
	ws, err := scene.Load(path)
	if err != nil {
		ws = scene.New(path, projectSceneLabel)
		if saveErr := ws.Save(); saveErr != nil {
			return saveErr
		}
	}
	a.setActive(ws)
	return nil
}

func (a *App) refreshTemplates() error {
	infos, err := a.store.Scan()
	if err != nil {
		return err
	}
	a.templates = infos
	items := make([]list.Item, len(infos))
	for i, info := range infos {
		items[i] = templateItem{info: info}
	}
	a.browser.SetItems(items)
	return nil
}

func (a *App) setActive(ws *scene.Workspace) {
	a.workspace = ws
	a.selectedID = ""
	a.cursor = 0
	a.rebuildRows()
	a.hub.Publish(notify.Event{Path: ws.Path(), Label: ws.Label})
}

// --- session.Host ---

// ActiveWorkspace reports the current scene's location and label.
func (a *App) ActiveWorkspace() (string, string) {
	if a.workspace == nil {
		return "", ""
	}
	return a.workspace.Path(), a.workspace.Label
}

// PromptSaveChanges persists unsaved changes. The interactive
// confirmation already ran as a modal before the controller was invoked,
// so reaching this point means the user accepted.
func (a *App) PromptSaveChanges() bool {
	if a.workspace == nil || !a.workspace.Dirty() {
		return true
	}
	if err := a.saveWorkspace(); err != nil {
		a.logbook.Error("save before switch failed: %v", err)
		return false
	}
	return true
}

// SwitchTo opens the scene at path; fails when the file is absent.
func (a *App) SwitchTo(path string) error {
	ws, err := scene.Load(path)
	if err != nil {
		return err
	}
	a.setActive(ws)
	return nil
}

// CreateAt replaces the scene at path with a fresh empty one.
func (a *App) CreateAt(path string) error {
	a.setActive(scene.New(path, a.config.ScratchLabel()))
	return nil
}

// ClearActive removes all top-level content from the active scene.
func (a *App) ClearActive() {
	if a.workspace == nil {
		return
	}
	a.workspace.Clear()
	a.rebuildRows()
}

// SaveActive persists the active scene directly, without the hook
// pipeline. Used for the controller's self-healing empty-scratch save.
func (a *App) SaveActive() error {
	if a.workspace == nil {
		return fmt.Errorf("no active workspace")
	}
	return a.workspace.Save()
}

// Instantiate spawns a live instance of the template into the active
// scene and returns its object ID.
func (a *App) Instantiate(templatePath string) (string, error) {
	obj, err := a.store.Instantiate(templatePath)
	if err != nil {
		return "", err
	}
	a.workspace.AddRoot(obj)
	a.rebuildRows()
	return obj.ID, nil
}

// Select makes the object the active selection.
func (a *App) Select(instanceID string) {
	a.selectedID = instanceID
	for i, row := range a.rows {
		if row.obj.ID == instanceID {
			a.cursor = i
			break
		}
	}
}

// FocusViewport switches to the scene editor screen.
func (a *App) FocusViewport() {
	a.state = stateEditor
}

// --- savehook.SyncHost ---

// ActiveWorkspacePath returns the active scene's storage location.
func (a *App) ActiveWorkspacePath() string {
	if a.workspace == nil {
		return ""
	}
	return a.workspace.Path()
}

// RootObjects returns the active scene's top-level objects.
func (a *App) RootObjects() []*scene.Object {
	if a.workspace == nil {
		return nil
	}
	return a.workspace.Roots
}

// ApplyToTemplate pushes a live instance's state back into its template.
func (a *App) ApplyToTemplate(root *scene.Object) error {
	if err := a.store.Apply(root); err != nil {
		return err
	}
	// The asset changed on disk; the browser should reflect it.
	if err := a.refreshTemplates(); err != nil {
		a.logbook.Warn("template rescan failed: %v", err)
	}
	return nil
}

// --- saving ---

// saveWorkspace runs the full before-save pipeline and persists the
// active scene. This is the path behind Ctrl+S and the pre-switch save.
func (a *App) saveWorkspace() error {
	if a.workspace == nil {
		return fmt.Errorf("no active workspace")
	}
	pending := []string{a.workspace.Path()}
	final := a.pipeline.Run(pending)
	for _, path := range final {
		if path == a.workspace.Path() {
			if err := a.workspace.Save(); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- selection ---

// currentSelection classifies what the user has selected right now.
func (a *App) currentSelection() session.Selection {
	switch a.state {
	case stateBrowser:
		if item, ok := a.browser.SelectedItem().(templateItem); ok {
			return session.Selection{Kind: session.KindTemplate, TemplatePath: item.info.Path}
		}
	case stateEditor:
		if row, ok := a.selectedRow(); ok {
			if root, bound := a.workspace.InstantiationRoot(row.obj.ID); bound {
				return session.Selection{
					Kind:         session.KindInstance,
					TemplatePath: root.Binding.TemplatePath,
				}
			}
		}
	}
	return session.Selection{Kind: session.KindNone}
}

// --- bubbletea ---

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case liveTickMsg:
		a.tickActive = false
		a.controller.Tick()
		if a.controller.ControlVisible() {
			return a, a.scheduleLiveCheck()
		}
		return a, nil

	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.updateModal(msg)
		}
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateBrowser {
				return a, tea.Quit
			}
		case "tab":
			if a.state == stateBrowser {
				a.state = stateEditor
			} else {
				a.state = stateBrowser
			}
			return a, nil
		case "ctrl+e":
			return a, a.startEdit()
		case "enter":
			if a.state == stateBrowser {
				return a, a.startEdit()
			}
		case "ctrl+s":
			if err := a.saveWorkspace(); err != nil {
				a.statusMsg = fmt.Sprintf("Save failed: %v", err)
				a.logbook.Error("save failed: %v", err)
			} else if a.workspace != nil {
				a.statusMsg = fmt.Sprintf("Saved %s", filepath.Base(a.workspace.Path()))
			}
			return a, nil
		case "ctrl+r":
			return a, a.startReturn()
		case "n":
			if a.state == stateBrowser {
				a.openInput("New template name", a.createTemplate)
				return a, nil
			}
		}
		if a.state == stateEditor {
			return a, a.updateEditor(msg)
		}
	}

	var cmd tea.Cmd
	if a.state == stateBrowser {
		a.browser, cmd = a.browser.Update(msg)
	}
	return a, cmd
}

func (a *App) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalConfirm:
		switch msg.String() {
		case "enter", "y":
			action := a.confirmAction
			a.closeModal()
			if action != nil {
				return a, action()
			}
		case "esc", "n":
			a.closeModal()
			a.statusMsg = "Cancelled"
		}
		return a, nil
	case modalInput:
		switch msg.String() {
		case "enter":
			value := strings.TrimSpace(a.input.Value())
			action := a.inputAction
			a.closeModal()
			if action != nil && value != "" {
				return a, action(value)
			}
			return a, nil
		case "esc":
			a.closeModal()
			return a, nil
		}
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) openConfirm(prompt string, action func() tea.Cmd) {
	a.modal = modalConfirm
	a.confirmPrompt = prompt
	a.confirmAction = action
}

func (a *App) openInput(prompt string, action func(string) tea.Cmd) {
	a.modal = modalInput
	a.inputPrompt = prompt
	a.inputAction = action
	a.input.SetValue("")
	a.input.Focus()
}

func (a *App) closeModal() {
	a.modal = modalNone
	a.confirmPrompt = ""
	a.confirmAction = nil
	a.inputPrompt = ""
	a.inputAction = nil
	a.input.Blur()
}

// startEdit runs the edit-template workflow for the current selection.
// The pre-switch save confirmation is surfaced as a modal; declining it
// means the controller is never invoked, which is the declined-prompt
// abort of the workflow.
func (a *App) startEdit() tea.Cmd {
	sel := a.currentSelection()
	if !a.controller.CanEdit(sel) {
		a.statusMsg = "Select a template to edit"
		return nil
	}
	if a.workspace != nil && a.workspace.Dirty() {
		a.openConfirm(
			fmt.Sprintf("Save changes to %s before editing?", a.workspace.Label),
			func() tea.Cmd {
				a.controller.BeginEdit(sel)
				return a.afterBeginEdit(sel)
			},
		)
		return nil
	}
	a.controller.BeginEdit(sel)
	return a.afterBeginEdit(sel)
}

func (a *App) afterBeginEdit(sel session.Selection) tea.Cmd {
	if !a.controller.ControlVisible() {
		a.statusMsg = "Edit session did not start"
		return nil
	}
	a.statusMsg = fmt.Sprintf("Editing %s in isolation · Ctrl+S syncs the template", filepath.Base(sel.TemplatePath))
	return a.scheduleLiveCheck()
}

// startReturn runs the return-to-previous action of the floating control.
func (a *App) startReturn() tea.Cmd {
	if !a.controller.ControlVisible() {
		a.statusMsg = "No edit session to return from"
		return nil
	}
	if a.workspace != nil && a.workspace.Dirty() {
		a.openConfirm(
			"Save scratch changes before returning?",
			func() tea.Cmd {
				a.controller.ReturnToPrevious()
				a.afterReturn()
				return nil
			},
		)
		return nil
	}
	a.controller.ReturnToPrevious()
	a.afterReturn()
	return nil
}

func (a *App) afterReturn() {
	if a.controller.ControlVisible() {
		a.statusMsg = "Return failed, still in the scratch scene"
		return
	}
	a.state = stateBrowser
	if a.workspace != nil {
		a.statusMsg = fmt.Sprintf("Back in %s", a.workspace.Label)
	}
}

func (a *App) createTemplate(name string) tea.Cmd {
	info, err := a.store.Create(name)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Create failed: %v", err)
		a.logbook.Error("create template: %v", err)
		return nil
	}
	if err := a.refreshTemplates(); err != nil {
		a.logbook.Warn("template rescan failed: %v", err)
	}
	a.statusMsg = fmt.Sprintf("Created %s", filepath.Base(info.Path))
	return nil
}

// scheduleLiveCheck arms the polling fallback for the floating control.
// The chain stops on its own once the session ends, so the tick is
// effectively cancelled with the session.
func (a *App) scheduleLiveCheck() tea.Cmd {
	if a.tickActive {
		return nil
	}
	a.tickActive = true
	return tea.Tick(liveCheckInterval, func(t time.Time) tea.Msg {
		return liveTickMsg(t)
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
