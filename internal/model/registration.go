package model

// RegistrationInput is the validated payload for bootstrapping a dojo.
type RegistrationInput struct {
	OrganizationName   string
	BusinessType       string
	MartialArtTypes    []string
	NumberOfSchools    int
	EstimatedStudents  int
	Email              string
	Phone              string
	Address            Address
	FirstName          string
	LastName           string
	Password           string
	Website            *string
	FirstSchoolName    *string
	FirstSchoolAddress *string
}

// SchoolName is the first school's name, defaulting to "<org> Main School".
func (in RegistrationInput) SchoolName() string {
	if in.FirstSchoolName != nil && *in.FirstSchoolName != "" {
		return *in.FirstSchoolName
	}
	return MainSchoolName(in.OrganizationName)
}

// SchoolAddress inherits the organization address unless a street was supplied.
func (in RegistrationInput) SchoolAddress() Address {
	addr := in.Address
	if in.FirstSchoolAddress != nil && *in.FirstSchoolAddress != "" {
		addr.Street = *in.FirstSchoolAddress
	}
	return addr
}

type RegistrationResult struct {
	Organization *Organization
	School       *School
	User         *User
	TrialDays    int
}
