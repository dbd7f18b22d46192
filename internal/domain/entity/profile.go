package entity

// Profile is the identity of the applicant used to fill onboarding forms.
type Profile struct {
	Individual Individual `yaml:"individual" json:"individual"`
	Business   Business   `yaml:"business" json:"business"`
	Owners     []Owner    `yaml:"owners" json:"owners"`
}

type Individual struct {
	FirstName   string  `yaml:"first_name" json:"firstName"`
	LastName    string  `yaml:"last_name" json:"lastName"`
	DateOfBirth string  `yaml:"date_of_birth" json:"dateOfBirth"`
	SSN         string  `yaml:"ssn" json:"ssn"`
	Email       string  `yaml:"email" json:"email"`
	Phone       string  `yaml:"phone" json:"phone"`
	JobTitle    string  `yaml:"job_title" json:"jobTitle"`
	Address     Address `yaml:"address" json:"address"`
}

type Business struct {
	LegalName          string  `yaml:"legal_name" json:"legalName"`
	DBA                string  `yaml:"dba" json:"dba"`
	EntityType         string  `yaml:"entity_type" json:"entityType"`
	EIN                string  `yaml:"ein" json:"ein"`
	StateOfFormation   string  `yaml:"state_of_formation" json:"stateOfFormation"`
	DateOfFormation    string  `yaml:"date_of_formation" json:"dateOfFormation"`
	RegistrationNumber string  `yaml:"registration_number" json:"registrationNumber"`
	Industry           string  `yaml:"industry" json:"industry"`
	NAICSCode          string  `yaml:"naics_code" json:"naicsCode"`
	Website            string  `yaml:"website" json:"website"`
	Description        string  `yaml:"description" json:"description"`
	AnnualRevenue      string  `yaml:"annual_revenue" json:"annualRevenue"`
	Employees          int     `yaml:"employees" json:"employees"`
	Email              string  `yaml:"email" json:"email"`
	Phone              string  `yaml:"phone" json:"phone"`
	Address            Address `yaml:"address" json:"address"`
}

type Owner struct {
	FirstName  string  `yaml:"first_name" json:"firstName"`
	LastName   string  `yaml:"last_name" json:"lastName"`
	Title      string  `yaml:"title" json:"title"`
	Ownership  float64 `yaml:"ownership_percent" json:"ownershipPercent"`
	Controller bool    `yaml:"controller" json:"controller"`
}

type Address struct {
	Line1      string `yaml:"line1" json:"line1"`
	Line2      string `yaml:"line2,omitempty" json:"line2,omitempty"`
	City       string `yaml:"city" json:"city"`
	State      string `yaml:"state" json:"state"`
	PostalCode string `yaml:"postal_code" json:"postalCode"`
	Country    string `yaml:"country" json:"country"`
}
