package domain

import "time"

// Coordinator manages events on behalf of a department.
type Coordinator struct {
	ID                string
	FirstName         string
	LastName          string
	PhoneNumber       string
	Email             string
	Department        string
	Degree            string
	ShortIntroduction string
	DegreeProgramme   string
	Active            bool
	AuthUID           string
	EventCount        int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName joins first and last name.
func (c *Coordinator) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// DegreeProgrammes is the fixed list of programmes offered by the university.
var DegreeProgrammes = []string{
	"Animal Production and Food Technology",
	"Export Agriculture",
	"Aquatic Resources Technology",
	"Tea Technology and Value Addition",
	"Computer Science and Technology",
	"Industrial Information Technology",
	"Science & Technology",
	"Mineral Resources and Technology",
	"Entrepreneurship & Management Studies",
	"Hospitality, Tourism & Events Management",
	"Human Resource Development",
	"English Language & Applied Linguistics",
	"Engineering Technology",
	"Biosystems Technology Honours",
	"Information and Communication Technology Honours",
}

// TopCoordinator ranks coordinators by event count.
type TopCoordinator struct {
	ID         string
	Name       string
	EventCount int64
}
