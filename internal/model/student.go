package model

// Student roster entry (table students). Populated out-of-band, read-only for the service.
type Student struct {
	Roll   string  `gorm:"type:text;primaryKey"        json:"roll"`
	Name   *string `gorm:"type:varchar(100)"           json:"name"`
	Branch *string `gorm:"type:varchar(50)"            json:"branch"`
}

// TableName table name
func (Student) TableName() string { return "students" }
