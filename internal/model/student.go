package model

// Student is a persisted record. ID is positional: it is reassigned to keep
// the table numbered 1..N after every delete.
type Student struct {
	ID      uint    `gorm:"primaryKey;autoIncrement:false"`
	Name    string  `gorm:"column:name;not null"`
	Age     int     `gorm:"column:age;not null"`
	Grade   float64 `gorm:"column:grade;not null"`
	Program string  `gorm:"column:program;not null"`
	Group   string  `gorm:"column:group;not null"`
	Subject string  `gorm:"column:subject;not null"`
}

// Draft is a validated student that has not been assigned an ID yet.
type Draft struct {
	Name    string
	Age     int
	Grade   float64
	Program string
	Group   string
	Subject string
}

// WithID turns a draft into a Student carrying the given ID.
func (d Draft) WithID(id uint) Student {
	return Student{
		ID:      id,
		Name:    d.Name,
		Age:     d.Age,
		Grade:   d.Grade,
		Program: d.Program,
		Group:   d.Group,
		Subject: d.Subject,
	}
}

// Draft strips the ID.
func (s Student) Draft() Draft {
	return Draft{
		Name:    s.Name,
		Age:     s.Age,
		Grade:   s.Grade,
		Program: s.Program,
		Group:   s.Group,
		Subject: s.Subject,
	}
}
