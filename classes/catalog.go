package classes

import "fmt"

// Class is one entry of the class-selection gallery
type Class struct {
	Grade       int    `json:"grade"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

var catalog = []Class{
	{Grade: 6, Title: "Class 6", Description: "Subjects and resources for Class 6 - Building strong foundations in core subjects"},
	{Grade: 7, Title: "Class 7", Description: "Subjects and resources for Class 7 - Advancing knowledge and critical thinking"},
	{Grade: 8, Title: "Class 8", Description: "Subjects and resources for Class 8 - Preparing for advanced concepts"},
}

// All returns the catalogue in grade order
func All() []Class {
	out := make([]Class, len(catalog))
	copy(out, catalog)
	return out
}

// ByGrade looks up a class
func ByGrade(grade int) (Class, error) {
	for _, c := range catalog {
		if c.Grade == grade {
			return c, nil
		}
	}
	return Class{}, fmt.Errorf("class %d not found", grade)
}
