package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"studentmanager/internal/logger"
	"studentmanager/internal/validator"
)

// Import states reported in ProgressInfo.Status.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// ProgressInfo tracks one CSV import. Processed counts data rows handled so
// far, split into Inserted and Rejected.
type ProgressInfo struct {
	FileName     string
	TotalRecords int
	Processed    int
	Inserted     int
	Rejected     int
	Status       string // one of the Status* constants
	Error        string
	StartTime    time.Time
	EndTime      time.Time
}

// ImportService loads students from CSV files laid out like the export:
// Nume, Varsta, Nota, Program, Grupa, Materia, optionally preceded by an ID
// column which is ignored.
type ImportService struct {
	students *StudentService
	log      logger.Logger

	fileProgressMap  map[string]*ProgressInfo
	fileProgressLock sync.RWMutex
	listener         func(ProgressInfo)
}

func NewImportService(students *StudentService, log logger.Logger) *ImportService {
	return &ImportService{
		students:        students,
		log:             log,
		fileProgressMap: make(map[string]*ProgressInfo),
	}
}

// SetProgressListener registers fn to receive a copy of every progress
// update. A nil fn removes the listener.
func (s *ImportService) SetProgressListener(fn func(ProgressInfo)) {
	s.fileProgressLock.Lock()
	defer s.fileProgressLock.Unlock()
	s.listener = fn
}

func (s *ImportService) GetFileProgress(fileName string) *ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	if progress, exists := s.fileProgressMap[fileName]; exists {
		copyProgress := *progress
		return &copyProgress
	}
	return nil
}

func (s *ImportService) GetAllFileProgress() []*ProgressInfo {
	s.fileProgressLock.RLock()
	defer s.fileProgressLock.RUnlock()

	result := make([]*ProgressInfo, 0, len(s.fileProgressMap))
	for _, progress := range s.fileProgressMap {
		copyProgress := *progress
		result = append(result, &copyProgress)
	}
	return result
}

// ImportCSV validates and inserts every data row of the file at filePath.
// Invalid rows are skipped and counted; a storage failure stops the import.
func (s *ImportService) ImportCSV(filePath string) (*ProgressInfo, error) {
	fileName := filepath.Base(filePath)
	s.update(fileName, func(p *ProgressInfo) {
		*p = ProgressInfo{FileName: fileName, Status: StatusProcessing, StartTime: time.Now()}
	})

	records, err := readRecords(filePath)
	if err != nil {
		s.fail(fileName, err)
		return s.GetFileProgress(fileName), err
	}
	s.update(fileName, func(p *ProgressInfo) { p.TotalRecords = len(records) })

	for line, record := range records {
		draftFields, err := rowFields(record)
		if err == nil {
			draft, verr := validator.ValidateStudent(draftFields[0], draftFields[1], draftFields[2], draftFields[3], draftFields[4], draftFields[5])
			if verr == nil {
				if _, err := s.students.Insert(draft); err != nil {
					s.fail(fileName, err)
					return s.GetFileProgress(fileName), err
				}
				s.update(fileName, func(p *ProgressInfo) {
					p.Processed++
					p.Inserted++
				})
				continue
			}
			err = verr
		}

		s.log.Warning("import", "row rejected", map[string]interface{}{
			"file":   fileName,
			"line":   line + 2,
			"reason": err.Error(),
		})
		s.update(fileName, func(p *ProgressInfo) {
			p.Processed++
			p.Rejected++
		})
	}

	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusCompleted
		p.EndTime = time.Now()
	})

	progress := s.GetFileProgress(fileName)
	s.log.Info("import", "import completed", map[string]interface{}{
		"file":     fileName,
		"inserted": progress.Inserted,
		"rejected": progress.Rejected,
		"elapsed":  progress.EndTime.Sub(progress.StartTime).String(),
	})
	return progress, nil
}

func (s *ImportService) update(fileName string, fn func(*ProgressInfo)) {
	s.fileProgressLock.Lock()
	progress, exists := s.fileProgressMap[fileName]
	if !exists {
		progress = &ProgressInfo{FileName: fileName}
		s.fileProgressMap[fileName] = progress
	}
	fn(progress)
	snapshot := *progress
	listener := s.listener
	s.fileProgressLock.Unlock()

	if listener != nil {
		listener(snapshot)
	}
}

func (s *ImportService) fail(fileName string, err error) {
	s.log.Error("import", err, map[string]interface{}{"file": fileName})
	s.update(fileName, func(p *ProgressInfo) {
		p.Status = StatusError
		p.Error = err.Error()
		p.EndTime = time.Now()
	})
}

func readRecords(filePath string) ([][]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// Skip header row
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func rowFields(record []string) ([]string, error) {
	switch len(record) {
	case 6:
		return record, nil
	case 7:
		return record[1:], nil
	default:
		return nil, fmt.Errorf("expected 6 or 7 columns, got %d", len(record))
	}
}
