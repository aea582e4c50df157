package service

import (
	"errors"

	"studentmanager/internal/logger"
	"studentmanager/internal/model"

	"gorm.io/gorm"
)

// GradePoint is the (name, grade) projection drawn by the chart.
type GradePoint struct {
	Name  string
	Grade float64
}

// StudentService owns the students table. It keeps no state between calls
// besides the connection pool.
type StudentService struct {
	db  *gorm.DB
	log logger.Logger
}

func NewStudentService(db *gorm.DB, log logger.Logger) *StudentService {
	return &StudentService{db: db, log: log}
}

// Insert stores draft with an id one greater than the current maximum and
// returns that id. The draft is expected to be validated already.
func (s *StudentService) Insert(draft model.Draft) (uint, error) {
	var student model.Student
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxID uint
		if err := tx.Model(&model.Student{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		student = draft.WithID(maxID + 1)
		return tx.Create(&student).Error
	})
	if err != nil {
		s.log.Error("store", err, map[string]interface{}{"op": "insert"})
		return 0, &PersistenceError{Op: "insert", Err: err}
	}

	s.log.Info("store", "student inserted", map[string]interface{}{"id": student.ID})
	return student.ID, nil
}

// ListAll returns every student ordered by id.
func (s *StudentService) ListAll() ([]model.Student, error) {
	var students []model.Student
	if err := s.db.Order("id asc").Find(&students).Error; err != nil {
		s.log.Error("store", err, map[string]interface{}{"op": "list"})
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return students, nil
}

// GradePoints returns the name and grade of every student ordered by id.
func (s *StudentService) GradePoints() ([]GradePoint, error) {
	var points []GradePoint
	err := s.db.Model(&model.Student{}).
		Select("name", "grade").
		Order("id asc").
		Scan(&points).Error
	if err != nil {
		s.log.Error("store", err, map[string]interface{}{"op": "grades"})
		return nil, &PersistenceError{Op: "grades", Err: err}
	}
	return points, nil
}

// DeleteAndRenumber removes the student with the given id and renumbers the
// survivors 1..N keeping their relative order. Either all of it happens or
// nothing does.
func (s *StudentService) DeleteAndRenumber(id uint) error {
	renumbered := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var target model.Student
		if err := tx.Select("id").Where("id = ?", id).Take(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Delete(&model.Student{}, id).Error; err != nil {
			return err
		}

		var ids []uint
		if err := tx.Model(&model.Student{}).Order("id asc").Pluck("id", &ids).Error; err != nil {
			return err
		}

		// Ascending order never collides: each new id is <= the old one and
		// every id below it is already final.
		for i, oldID := range ids {
			newID := uint(i + 1)
			if oldID == newID {
				continue
			}
			if err := tx.Exec("UPDATE students SET id = ? WHERE id = ?", newID, oldID).Error; err != nil {
				return err
			}
			renumbered++
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		s.log.Warning("store", "delete target not found", map[string]interface{}{"id": id})
		return ErrNotFound
	}
	if err != nil {
		s.log.Error("store", err, map[string]interface{}{"op": "delete", "id": id})
		return &PersistenceError{Op: "delete", Err: err}
	}

	s.log.Info("store", "student deleted", map[string]interface{}{"id": id, "renumbered": renumbered})
	return nil
}
