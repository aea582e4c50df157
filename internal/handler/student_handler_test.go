package handler_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"studentmanager/internal/config"
	"studentmanager/internal/database"
	"studentmanager/internal/handler"
	"studentmanager/internal/logger"
	"studentmanager/internal/model"
	"studentmanager/internal/service"
	"studentmanager/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOpener struct {
	mock.Mock
}

func (m *MockOpener) Open(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

type fixture struct {
	handler    *handler.StudentHandler
	opener     *MockOpener
	exportPath string
	chartPath  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.DBPath = filepath.Join(dir, "studenti.db")

	db, err := database.InitDB(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	log := logger.Nop()
	students := service.NewStudentService(db, log)
	exportPath := filepath.Join(dir, "export.xlsx")
	chartPath := filepath.Join(dir, "chart.png")
	opener := &MockOpener{}

	h := handler.NewStudentHandler(
		students,
		service.NewExportService(exportPath, log),
		service.NewChartService(chartPath, log),
		service.NewImportService(students, log),
		opener,
	)
	require.NoError(t, h.Reload())
	return fixture{handler: h, opener: opener, exportPath: exportPath, chartPath: chartPath}
}

func fill(h *handler.StudentHandler, name, age, grade string) {
	h.State.Form = handler.Form{Name: name, Age: age, Grade: grade, Program: "Informatica", Group: "1A", Subject: "Mate"}
}

func TestAddAndDeleteScenario(t *testing.T) {
	f := setup(t)
	h := f.handler

	for _, s := range []struct{ name, age, grade string }{
		{"A", "20", "8.5"},
		{"B", "22", "6.0"},
		{"C", "19", "9.0"},
	} {
		fill(h, s.name, s.age, s.grade)
		notice := h.Add()
		require.Equal(t, handler.SeverityInfo, notice.Severity, notice.Message)
		assert.Equal(t, handler.Form{}, h.State.Form)
	}

	require.Len(t, h.State.Rows, 3)
	for i, name := range []string{"A", "B", "C"} {
		assert.Equal(t, uint(i+1), h.State.Rows[i].ID)
		assert.Equal(t, name, h.State.Rows[i].Name)
	}

	h.Select(2)
	notice := h.Delete()
	assert.Equal(t, handler.SeverityInfo, notice.Severity)
	assert.Nil(t, h.State.Selected)
	require.Len(t, h.State.Rows, 2)
	assert.Equal(t, model.Student{ID: 1, Name: "A", Age: 20, Grade: 8.5, Program: "Informatica", Group: "1A", Subject: "Mate"}, h.State.Rows[0])
	assert.Equal(t, model.Student{ID: 2, Name: "C", Age: 19, Grade: 9, Program: "Informatica", Group: "1A", Subject: "Mate"}, h.State.Rows[1])
}

func TestAddRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name, age, grade string
		wantTitle        string
		wantMessage      string
		wantSeverity     handler.Severity
	}{
		{"", "20", "8", "Eroare Introducere", "Toate câmpurile sunt obligatorii!", handler.SeverityWarning},
		{"John3", "20", "8", "Eroare Validare", "Numele trebuie să conțină doar litere și spații!", handler.SeverityError},
		{"John", "-5", "8", "Eroare Validare", "Vârsta trebuie să conțină doar cifre!", handler.SeverityError},
		{"John", "20", "11", "Eroare Validare", "Nota trebuie să fie între 0 și 10!", handler.SeverityError},
		{"John", "20", "abc", "Eroare Validare", "Nota trebuie să fie un număr valid!", handler.SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.wantMessage, func(t *testing.T) {
			f := setup(t)
			fill(f.handler, tt.name, tt.age, tt.grade)
			before := f.handler.State.Form

			notice := f.handler.Add()
			assert.Equal(t, tt.wantSeverity, notice.Severity)
			assert.Equal(t, tt.wantTitle, notice.Title)
			assert.Equal(t, tt.wantMessage, notice.Message)
			assert.Equal(t, before, f.handler.State.Form, "form is kept so the user can correct it")
			assert.Empty(t, f.handler.State.Rows)
		})
	}
}

func TestDeleteWithoutSelection(t *testing.T) {
	f := setup(t)

	notice := f.handler.Delete()
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	assert.Equal(t, "Selectați un student pentru a-l șterge!", notice.Message)
}

func TestDeleteStaleSelection(t *testing.T) {
	f := setup(t)
	f.handler.Select(5)

	notice := f.handler.Delete()
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	assert.Equal(t, "Eroare Selecție", notice.Title)
}

func TestExportOpensFile(t *testing.T) {
	f := setup(t)
	fill(f.handler, "Ana", "20", "9")
	require.Equal(t, handler.SeverityInfo, f.handler.Add().Severity)

	f.opener.On("Open", f.exportPath).Return(nil).Once()

	notice := f.handler.Export()
	assert.Equal(t, handler.SeverityInfo, notice.Severity)
	assert.Equal(t, "Datele au fost exportate în Excel!", notice.Message)
	f.opener.AssertExpectations(t)
	_, err := os.Stat(f.exportPath)
	assert.NoError(t, err)
}

func TestExportOpenFailureIsWarning(t *testing.T) {
	f := setup(t)
	fill(f.handler, "Ana", "20", "9")
	require.Equal(t, handler.SeverityInfo, f.handler.Add().Severity)

	f.opener.On("Open", mock.Anything).Return(errors.New("no viewer")).Once()

	notice := f.handler.Export()
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	f.opener.AssertExpectations(t)
}

func TestExportEmpty(t *testing.T) {
	f := setup(t)

	notice := f.handler.Export()
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	assert.Equal(t, "Nu există date de exportat!", notice.Message)
	f.opener.AssertNotCalled(t, "Open", mock.Anything)
}

func TestChart(t *testing.T) {
	f := setup(t)

	path, notice := f.handler.Chart()
	assert.Empty(t, path)
	assert.Equal(t, "Nu există date pentru a genera graficul!", notice.Message)

	fill(f.handler, "Ana", "20", "9")
	require.Equal(t, handler.SeverityInfo, f.handler.Add().Severity)

	path, notice = f.handler.Chart()
	assert.Equal(t, handler.SeverityInfo, notice.Severity)
	assert.Equal(t, f.chartPath, path)
}

func TestImport(t *testing.T) {
	f := setup(t)
	path := filepath.Join(t.TempDir(), "in.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nume,Varsta,Nota,Program,Grupa,Materia\nAna,20,9,Info,1A,Mate\nX1,20,9,Info,1A,Mate\n"), 0o644))

	notice := f.handler.Import(path)
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	assert.Equal(t, "Au fost importați 1 studenți. 1 rânduri invalide au fost ignorate.", notice.Message)
	assert.Len(t, f.handler.State.Rows, 1)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", service.ErrNotFound, "Studentul selectat nu mai există!"},
		{"persistence", &service.PersistenceError{Op: "insert", Err: errors.New("disk I/O error")}, "Eroare la baza de date: disk I/O error"},
		{"export write", &service.ExportError{Path: "x.xlsx", Err: errors.New("permission denied")}, "Eroare la export: permission denied"},
		{"wrapped validation", errors.Join(errors.New("form"), &validator.ValidationError{Field: "age", Kind: validator.ErrInvalidAge}), "Vârsta trebuie să conțină doar cifre!"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg := handler.UserMessage(tt.err)
			assert.Equal(t, tt.want, msg)
		})
	}
}

type listFailingStore struct {
	inserted []model.Draft
}

func (s *listFailingStore) Insert(draft model.Draft) (uint, error) {
	s.inserted = append(s.inserted, draft)
	return uint(len(s.inserted)), nil
}

func (s *listFailingStore) ListAll() ([]model.Student, error) {
	return nil, &service.PersistenceError{Op: "list", Err: errors.New("database is locked")}
}

func (s *listFailingStore) GradePoints() ([]service.GradePoint, error) {
	return nil, nil
}

func (s *listFailingStore) DeleteAndRenumber(uint) error {
	return nil
}

func TestAddReportsStoredStudentWhenReloadFails(t *testing.T) {
	store := &listFailingStore{}
	h := handler.NewStudentHandler(store, nil, nil, nil, nil)
	fill(h, "Ana", "20", "9")

	notice := h.Add()
	assert.Equal(t, handler.SeverityWarning, notice.Severity)
	assert.Equal(t, "Succes", notice.Title)
	assert.Contains(t, notice.Message, "Studentul a fost adăugat")
	assert.Contains(t, notice.Message, "database is locked")
	assert.Len(t, store.inserted, 1)
	assert.Equal(t, handler.Form{}, h.State.Form)
}
