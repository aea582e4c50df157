package handler

import (
	"errors"
	"strconv"

	"studentmanager/internal/model"
	"studentmanager/internal/service"
	"studentmanager/internal/validator"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Notice is what the shell shows the user after an action.
type Notice struct {
	Severity Severity
	Title    string
	Message  string
}

// Form holds the raw text of the six input fields.
type Form struct {
	Name    string
	Age     string
	Grade   string
	Program string
	Group   string
	Subject string
}

// AppState is the presentation state the shell renders.
type AppState struct {
	Form     Form
	Rows     []model.Student
	Selected *uint
}

// Opener opens a produced file in an external viewer.
type Opener interface {
	Open(path string) error
}

type StudentStore interface {
	Insert(draft model.Draft) (uint, error)
	ListAll() ([]model.Student, error)
	GradePoints() ([]service.GradePoint, error)
	DeleteAndRenumber(id uint) error
}

type Exporter interface {
	Export(students []model.Student) (string, error)
}

type ChartRenderer interface {
	Render(points []service.GradePoint) (string, error)
}

type Importer interface {
	ImportCSV(filePath string) (*service.ProgressInfo, error)
}

// StudentHandler runs one user action at a time against the services and
// keeps State in sync with the store.
type StudentHandler struct {
	State *AppState

	students StudentStore
	exporter Exporter
	charts   ChartRenderer
	importer Importer
	opener   Opener
}

func NewStudentHandler(students StudentStore, exporter Exporter, charts ChartRenderer, importer Importer, opener Opener) *StudentHandler {
	return &StudentHandler{
		State:    &AppState{},
		students: students,
		exporter: exporter,
		charts:   charts,
		importer: importer,
		opener:   opener,
	}
}

// Reload replaces State.Rows with the current table contents and drops the
// selection, since ids may have changed.
func (h *StudentHandler) Reload() error {
	rows, err := h.students.ListAll()
	if err != nil {
		return err
	}
	h.State.Rows = rows
	h.State.Selected = nil
	return nil
}

// Select marks the row with the given id as the delete target.
func (h *StudentHandler) Select(id uint) {
	h.State.Selected = &id
}

// Add validates the form, stores the student and clears the form.
func (h *StudentHandler) Add() Notice {
	f := h.State.Form
	draft, err := validator.ValidateStudent(f.Name, f.Age, f.Grade, f.Program, f.Group, f.Subject)
	if err != nil {
		return errorNotice(err)
	}

	if _, err := h.students.Insert(draft); err != nil {
		return errorNotice(err)
	}
	h.State.Form = Form{}
	if err := h.Reload(); err != nil {
		_, msg := UserMessage(err)
		return Notice{Severity: SeverityWarning, Title: "Succes", Message: "Studentul a fost adăugat, dar lista nu a putut fi reîncărcată: " + msg}
	}
	return Notice{Severity: SeverityInfo, Title: "Succes", Message: "Studentul a fost adăugat cu succes!"}
}

// Delete removes the selected student.
func (h *StudentHandler) Delete() Notice {
	if h.State.Selected == nil {
		return Notice{Severity: SeverityWarning, Title: "Eroare Selecție", Message: "Selectați un student pentru a-l șterge!"}
	}

	err := h.students.DeleteAndRenumber(*h.State.Selected)
	if reloadErr := h.Reload(); err == nil && reloadErr != nil {
		err = reloadErr
	}
	if err != nil {
		return errorNotice(err)
	}
	return Notice{Severity: SeverityInfo, Title: "Succes", Message: "Studentul a fost șters și ID-urile au fost reordonate!"}
}

// Export writes the workbook and asks the opener to show it.
func (h *StudentHandler) Export() Notice {
	rows, err := h.students.ListAll()
	if err != nil {
		return errorNotice(err)
	}
	path, err := h.exporter.Export(rows)
	if err != nil {
		return errorNotice(err)
	}
	if h.opener != nil {
		if err := h.opener.Open(path); err != nil {
			return Notice{Severity: SeverityWarning, Title: "Export", Message: "Datele au fost exportate în " + path + ", dar fișierul nu a putut fi deschis."}
		}
	}
	return Notice{Severity: SeverityInfo, Title: "Succes", Message: "Datele au fost exportate în Excel!"}
}

// Chart renders the grade chart and returns the image path for display.
func (h *StudentHandler) Chart() (string, Notice) {
	points, err := h.students.GradePoints()
	if err != nil {
		return "", errorNotice(err)
	}
	path, err := h.charts.Render(points)
	if err != nil {
		return "", errorNotice(err)
	}
	return path, Notice{Severity: SeverityInfo, Title: "Grafic Note", Message: "Graficul a fost generat."}
}

// Import loads a CSV file and refreshes the rows.
func (h *StudentHandler) Import(path string) Notice {
	progress, err := h.importer.ImportCSV(path)
	if reloadErr := h.Reload(); err == nil && reloadErr != nil {
		err = reloadErr
	}
	if err != nil {
		return errorNotice(err)
	}
	msg := "Au fost importați " + strconv.Itoa(progress.Inserted) + " studenți."
	if progress.Rejected > 0 {
		msg += " " + strconv.Itoa(progress.Rejected) + " rânduri invalide au fost ignorate."
		return Notice{Severity: SeverityWarning, Title: "Import", Message: msg}
	}
	return Notice{Severity: SeverityInfo, Title: "Succes", Message: msg}
}

func errorNotice(err error) Notice {
	title, msg := UserMessage(err)
	severity := SeverityError
	if errors.Is(err, validator.ErrMissingField) || errors.Is(err, service.ErrNoData) || errors.Is(err, service.ErrNotFound) {
		severity = SeverityWarning
	}
	return Notice{Severity: severity, Title: title, Message: msg}
}

// UserMessage maps a failure to the dialog title and text shown to the user.
func UserMessage(err error) (title, message string) {
	var verr *validator.ValidationError
	switch {
	case errors.Is(err, validator.ErrMissingField):
		return "Eroare Introducere", "Toate câmpurile sunt obligatorii!"
	case errors.Is(err, validator.ErrInvalidName):
		return "Eroare Validare", "Numele trebuie să conțină doar litere și spații!"
	case errors.Is(err, validator.ErrInvalidAge):
		return "Eroare Validare", "Vârsta trebuie să conțină doar cifre!"
	case errors.As(err, &verr) && errors.Is(err, validator.ErrInvalidGrade) && verr.Reason == "out of range":
		return "Eroare Validare", "Nota trebuie să fie între 0 și 10!"
	case errors.Is(err, validator.ErrInvalidGrade):
		return "Eroare Validare", "Nota trebuie să fie un număr valid!"
	case errors.Is(err, service.ErrNotFound):
		return "Eroare Selecție", "Studentul selectat nu mai există!"
	case errors.Is(err, service.ErrNoData):
		var exportErr *service.ExportError
		if errors.As(err, &exportErr) {
			return "Eroare", "Nu există date de exportat!"
		}
		return "Eroare", "Nu există date pentru a genera graficul!"
	}

	var perr *service.PersistenceError
	if errors.As(err, &perr) {
		return "Eroare", "Eroare la baza de date: " + perr.Err.Error()
	}
	var exportErr *service.ExportError
	if errors.As(err, &exportErr) {
		return "Eroare", "Eroare la export: " + exportErr.Err.Error()
	}
	return "Eroare", err.Error()
}
