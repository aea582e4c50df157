package gui

import (
	"image/color"
	"net/url"
	"path/filepath"
	"strconv"

	"studentmanager/internal/handler"
	"studentmanager/internal/logger"
	"studentmanager/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	WindowTitle = "Sistem de Management al Studenților"
	columnWidth = 150
)

var columns = service.ExportHeader

// View is the main window: input form, action buttons and the student table.
type View struct {
	app     fyne.App
	window  fyne.Window
	handler *handler.StudentHandler
	log     logger.Logger

	nameEntry    *widget.Entry
	ageEntry     *widget.Entry
	gradeEntry   *widget.Entry
	programEntry *widget.Entry
	groupEntry   *widget.Entry
	subjectEntry *widget.Entry

	addButton    *widget.Button
	deleteButton *widget.Button
	exportButton *widget.Button
	chartButton  *widget.Button
	importButton *widget.Button

	table         *widget.Table
	mainContainer *fyne.Container
}

func NewView(app fyne.App, h *handler.StudentHandler, log logger.Logger) *View {
	v := &View{
		app:     app,
		window:  app.NewWindow(WindowTitle),
		handler: h,
		log:     log,
	}
	v.setupComponents()
	v.setupLayout()
	v.window.Resize(fyne.NewSize(1300, 700))
	return v
}

func (v *View) setupComponents() {
	v.nameEntry = widget.NewEntry()
	v.ageEntry = widget.NewEntry()
	v.gradeEntry = widget.NewEntry()
	v.programEntry = widget.NewEntry()
	v.groupEntry = widget.NewEntry()
	v.subjectEntry = widget.NewEntry()

	v.addButton = widget.NewButton("Adaugă", v.onAdd)
	v.addButton.Importance = widget.SuccessImportance
	v.deleteButton = widget.NewButton("Șterge", v.onDelete)
	v.deleteButton.Importance = widget.DangerImportance
	v.exportButton = widget.NewButton("Export Excel", v.onExport)
	v.exportButton.Importance = widget.HighImportance
	v.chartButton = widget.NewButton("Grafic Note", v.onChart)
	v.chartButton.Importance = widget.HighImportance
	v.importButton = widget.NewButton("Import CSV", v.onImport)

	v.table = widget.NewTableWithHeaders(
		func() (int, int) { return len(v.handler.State.Rows), len(columns) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		v.updateCell,
	)
	v.table.ShowHeaderColumn = false
	v.table.CreateHeader = func() fyne.CanvasObject { return widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}) }
	v.table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		if id.Col >= 0 && id.Col < len(columns) {
			o.(*widget.Label).SetText(columns[id.Col])
		}
	}
	for i := range columns {
		v.table.SetColumnWidth(i, columnWidth)
	}
	v.table.OnSelected = func(id widget.TableCellID) {
		if id.Row >= 0 && id.Row < len(v.handler.State.Rows) {
			v.handler.Select(v.handler.State.Rows[id.Row].ID)
		}
	}
}

func (v *View) setupLayout() {
	title := canvas.NewText(WindowTitle, color.White)
	title.TextSize = 16
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter
	header := container.NewStack(canvas.NewRectangle(color.RGBA{R: 108, G: 117, B: 125, A: 255}), container.NewPadded(title))

	form := container.NewGridWithColumns(6,
		widget.NewLabel("Nume:"), v.nameEntry,
		widget.NewLabel("Vârstă:"), v.ageEntry,
		widget.NewLabel("Notă:"), v.gradeEntry,
		widget.NewLabel("Program:"), v.programEntry,
		widget.NewLabel("Grupă:"), v.groupEntry,
		widget.NewLabel("Materia:"), v.subjectEntry,
	)
	buttons := container.NewHBox(v.addButton, v.deleteButton, v.exportButton, v.chartButton, v.importButton)

	top := container.NewVBox(header, form, buttons)
	v.mainContainer = container.NewBorder(top, nil, nil, nil, v.table)
}

func (v *View) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	label := o.(*widget.Label)
	if id.Row < 0 || id.Row >= len(v.handler.State.Rows) {
		label.SetText("")
		return
	}
	s := v.handler.State.Rows[id.Row]
	var text string
	switch id.Col {
	case 0:
		text = strconv.FormatUint(uint64(s.ID), 10)
	case 1:
		text = s.Name
	case 2:
		text = strconv.Itoa(s.Age)
	case 3:
		text = strconv.FormatFloat(s.Grade, 'f', -1, 64)
	case 4:
		text = s.Program
	case 5:
		text = s.Group
	case 6:
		text = s.Subject
	}
	label.SetText(text)
}

// Show loads the table and displays the window.
func (v *View) Show() {
	if err := v.handler.Reload(); err != nil {
		v.log.Error("gui", err, nil)
		title, msg := handler.UserMessage(err)
		defer v.showNotice(handler.Notice{Severity: handler.SeverityError, Title: title, Message: msg})
	}
	v.refresh()
	v.window.SetContent(v.mainContainer)
	v.window.Show()
}

func (v *View) ShowAndRun() {
	v.Show()
	v.app.Run()
}

func (v *View) readForm() {
	v.handler.State.Form = handler.Form{
		Name:    v.nameEntry.Text,
		Age:     v.ageEntry.Text,
		Grade:   v.gradeEntry.Text,
		Program: v.programEntry.Text,
		Group:   v.groupEntry.Text,
		Subject: v.subjectEntry.Text,
	}
}

func (v *View) writeForm() {
	f := v.handler.State.Form
	v.nameEntry.SetText(f.Name)
	v.ageEntry.SetText(f.Age)
	v.gradeEntry.SetText(f.Grade)
	v.programEntry.SetText(f.Program)
	v.groupEntry.SetText(f.Group)
	v.subjectEntry.SetText(f.Subject)
}

func (v *View) refresh() {
	v.table.UnselectAll()
	v.table.Refresh()
}

func (v *View) onAdd() {
	v.readForm()
	notice := v.handler.Add()
	v.writeForm()
	v.refresh()
	v.showNotice(notice)
}

func (v *View) onDelete() {
	notice := v.handler.Delete()
	v.refresh()
	v.showNotice(notice)
}

func (v *View) onExport() {
	v.showNotice(v.handler.Export())
}

func (v *View) onChart() {
	path, notice := v.handler.Chart()
	if path == "" {
		v.showNotice(notice)
		return
	}

	img := canvas.NewImageFromFile(path)
	img.FillMode = canvas.ImageFillContain
	w := v.app.NewWindow(service.ChartTitle)
	w.SetContent(img)
	w.Resize(fyne.NewSize(1000, 600))
	w.Show()
}

func (v *View) onImport() {
	open := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			v.log.Error("gui", err, nil)
			return
		}
		if r == nil {
			return
		}
		path := r.URI().Path()
		r.Close()

		notice := v.handler.Import(path)
		v.refresh()
		v.showNotice(notice)
	}, v.window)
	open.SetFilter(storage.NewExtensionFileFilter([]string{".csv"}))
	open.Show()
}

func (v *View) showNotice(n handler.Notice) {
	if n.Severity != handler.SeverityInfo {
		v.log.Warning("gui", n.Message, map[string]interface{}{"title": n.Title})
	}
	content := container.NewHBox(widget.NewIcon(noticeIcon(n.Severity)), widget.NewLabel(n.Message))
	dialog.ShowCustom(n.Title, "OK", content, v.window)
}

func noticeIcon(s handler.Severity) fyne.Resource {
	switch s {
	case handler.SeverityError:
		return theme.ErrorIcon()
	case handler.SeverityWarning:
		return theme.WarningIcon()
	default:
		return theme.InfoIcon()
	}
}

// URLOpener opens files through the platform's default handler.
type URLOpener struct {
	App fyne.App
}

func (o URLOpener) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return o.App.OpenURL(&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)})
}
