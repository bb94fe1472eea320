package models

type Category struct {
	ID   uint   `json:"category_id" gorm:"column:category_id;primaryKey"`
	Name string `json:"category_name" gorm:"column:category_name;uniqueIndex;not null"`
}
