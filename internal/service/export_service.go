package service

import (
	"os"
	"path/filepath"

	"studentmanager/internal/logger"
	"studentmanager/internal/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

// ExportHeader is the first row of every exported workbook.
var ExportHeader = []string{"ID", "Nume", "Varsta", "Nota", "Program", "Grupa", "Materia"}

// ExportService writes the student list to a workbook at a fixed path.
type ExportService struct {
	path string
	log  logger.Logger
}

func NewExportService(path string, log logger.Logger) *ExportService {
	return &ExportService{path: path, log: log}
}

// Path is where Export writes.
func (s *ExportService) Path() string {
	return s.path
}

// Export overwrites the workbook with a header row and one row per student,
// in the order given. An empty list writes nothing.
func (s *ExportService) Export(students []model.Student) (string, error) {
	if len(students) == 0 {
		return "", &ExportError{Path: s.path, Err: ErrNoData}
	}

	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return "", s.fail(err)
	}

	for i, st := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", s.fail(err)
		}
		row := []interface{}{st.ID, st.Name, st.Age, st.Grade, st.Program, st.Group, st.Subject}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return "", s.fail(err)
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", s.fail(err)
		}
	}
	if err := f.SaveAs(s.path); err != nil {
		return "", s.fail(err)
	}

	s.log.Info("export", "students exported", map[string]interface{}{
		"path": s.path,
		"rows": len(students),
	})
	return s.path, nil
}

func (s *ExportService) fail(err error) error {
	s.log.Error("export", err, map[string]interface{}{"path": s.path})
	return &ExportError{Path: s.path, Err: err}
}
