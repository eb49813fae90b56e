package models

// Pathway is the academic track that scopes which courses can be selected.
type Pathway string

// Known pathways.
const (
	PathwayHD         Pathway = "HD"
	PathwayDiploma    Pathway = "DIPLOMA"
	PathwayFoundation Pathway = "FOUNDATION"
	PathwayTopUp      Pathway = "TOP_UP"
)

// Pathways lists every selectable pathway in display order.
var Pathways = []PathwayOption{
	{Value: PathwayHD, Label: "Higher Diploma"},
	{Value: PathwayDiploma, Label: "Diploma"},
	{Value: PathwayFoundation, Label: "Foundation"},
	{Value: PathwayTopUp, Label: "Top-up"},
}

// PathwayOption is a labelled pathway for dropdowns.
type PathwayOption struct {
	Value Pathway `json:"value"`
	Label string  `json:"label"`
}

// IsKnownPathway reports whether p is one of Pathways.
func IsKnownPathway(p string) bool {
	for _, opt := range Pathways {
		if string(opt.Value) == p {
			return true
		}
	}
	return false
}

// Course is a programme offered under a pathway.
type Course struct {
	ID             string  `json:"id"`
	Code           string  `json:"code"`
	Name           string  `json:"name"`
	Pathway        Pathway `json:"pathway"`
	DurationMonths int     `json:"durationMonths,omitempty"`
}

// Batch is an intake of a course.
type Batch struct {
	ID                   string `json:"id"`
	CourseID             string `json:"courseId"`
	Name                 string `json:"name"`
	StartDate            string `json:"startDate,omitempty"`
	OrientationDate      string `json:"orientationDate,omitempty"`
	RegistrationDeadline string `json:"registrationDeadline,omitempty"`
}

// Classroom is a teaching group tied to one course, batch, module and month.
type Classroom struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CourseID   string `json:"courseId"`
	BatchID    string `json:"batchId"`
	ModuleName string `json:"moduleName,omitempty"`
	Month      string `json:"month,omitempty"`
	Capacity   int    `json:"capacity,omitempty"`
	Enrolled   int    `json:"enrolled,omitempty"`
}

// RequiredDocument is a catalog entry describing a document a student may supply.
type RequiredDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsRequired  bool   `json:"isRequired"`
}
