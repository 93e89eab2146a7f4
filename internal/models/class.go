package models

// Class is a course offering. Its ID is the course name as written in the sheet.
type Class struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit,omitempty"`
	Schedule     string  `json:"schedule,omitempty"`
	Instructor   string  `json:"instructor,omitempty"`
	Capacity     int     `json:"capacity"`
	MonthlyPrice float64 `json:"monthly_price"`
}

// ClassRoster lists the active students matched to a class.
type ClassRoster struct {
	Class    Class     `json:"class"`
	Students []Student `json:"students"`
	Occupied int       `json:"occupied"`
	Free     int       `json:"free"`
}
