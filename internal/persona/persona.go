// Package persona holds target-audience records and the transitions the
// persona dialog applies to them. Every operation returns a fresh value;
// nothing here mutates its input.
package persona

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/stratagem/internal/upload"
)

// Persona describes one target audience.
type Persona struct {
	ID                 string        `json:"id,omitempty" yaml:"id,omitempty"`
	Name               string        `json:"name" yaml:"name"`
	Category           string        `json:"category" yaml:"category"`
	Demographic        string        `json:"demographic" yaml:"demographic"`
	Lifestyles         string        `json:"lifestyles" yaml:"lifestyles"`
	Behavioral         string        `json:"behavioral" yaml:"behavioral"`
	Psychographic      string        `json:"psychographic" yaml:"psychographic"`
	PersonaPrompt      string        `json:"persona_prompt" yaml:"persona_prompt"`
	ProfileImage       string        `json:"profile_image,omitempty" yaml:"profile_image,omitempty"`
	Quote              string        `json:"quote" yaml:"quote"`
	Age                string        `json:"age" yaml:"age"`
	Gender             string        `json:"gender" yaml:"gender"`
	Location           string        `json:"location" yaml:"location"`
	RelationshipStatus string        `json:"relationship_status" yaml:"relationship_status"`
	Title              string        `json:"title" yaml:"title"`
	Education          string        `json:"education" yaml:"education"`
	Description        string        `json:"description" yaml:"description"`
	Goals              []string      `json:"goals" yaml:"goals"`
	Motivations        []string      `json:"motivations" yaml:"motivations"`
	Documents          []upload.File `json:"documents" yaml:"documents"`
}

// Field names a scalar text field of a Persona.
type Field string

const (
	FieldName               Field = "name"
	FieldCategory           Field = "category"
	FieldDemographic        Field = "demographic"
	FieldLifestyles         Field = "lifestyles"
	FieldBehavioral         Field = "behavioral"
	FieldPsychographic      Field = "psychographic"
	FieldPersonaPrompt      Field = "persona_prompt"
	FieldProfileImage       Field = "profile_image"
	FieldQuote              Field = "quote"
	FieldAge                Field = "age"
	FieldGender             Field = "gender"
	FieldLocation           Field = "location"
	FieldRelationshipStatus Field = "relationship_status"
	FieldTitle              Field = "title"
	FieldEducation          Field = "education"
	FieldDescription        Field = "description"
)

var (
	// ErrUnknownField is returned for a field name that is not a text field.
	ErrUnknownField = errors.New("unknown persona field")
	// ErrNameRequired is returned when saving a persona without a name.
	ErrNameRequired = errors.New("persona name is required")
)

// FieldSpec describes how the dialog presents a field.
type FieldSpec struct {
	Field       Field
	Label       string
	Placeholder string
	Multiline   bool
}

// FormFields lists the editable text fields in dialog order: the long-form
// profile first, then the summary card.
var FormFields = []FieldSpec{
	{FieldDemographic, "Demographic", "Age: 34, Gender: Female, Marital status: Single, Occupation: Marketing Manager, Location: Urban city", true},
	{FieldLifestyles, "Lifestyles", "Enjoys attending networking events, often socializes with colleagues after work...", true},
	{FieldBehavioral, "Behavioral", "Frequently engages with digital marketing platforms, actively experiments with new campaign tools...", true},
	{FieldPsychographic, "Psychographic & Attitudinal", "Believes in the power of creativity and collaboration, values strong professional connections...", true},
	{FieldPersonaPrompt, "Persona Prompt", "A 34-year-old extroverted woman living in the city, working as a marketing manager...", true},
	{FieldName, "Name", "Persona Name", false},
	{FieldQuote, "Quote", "I thrive on connecting with people and staying ahead of new ideas.", false},
	{FieldGender, "Gender", "Gender", false},
	{FieldAge, "Age", "Age", false},
	{FieldLocation, "Location", "Location", false},
	{FieldRelationshipStatus, "Relationship Status", "Relationship Status", false},
	{FieldTitle, "Title", "Title", false},
	{FieldEducation, "Education", "Education", false},
	{FieldDescription, "Description", "Detailed description of the persona...", true},
}

// Clone returns a deep copy of p.
func (p Persona) Clone() Persona {
	p.Goals = slices.Clone(p.Goals)
	p.Motivations = slices.Clone(p.Motivations)
	p.Documents = slices.Clone(p.Documents)
	return p
}

// Validate checks the fields required to save.
func (p Persona) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Get returns the value of a text field.
func (p Persona) Get(field Field) (string, error) {
	ptr := p.fieldPtr(field)
	if ptr == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return *ptr, nil
}

// DisplayName is Name, or a placeholder for unnamed personas.
func (p Persona) DisplayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return "Untitled persona"
}

func (p *Persona) fieldPtr(field Field) *string {
	switch field {
	case FieldName:
		return &p.Name
	case FieldCategory:
		return &p.Category
	case FieldDemographic:
		return &p.Demographic
	case FieldLifestyles:
		return &p.Lifestyles
	case FieldBehavioral:
		return &p.Behavioral
	case FieldPsychographic:
		return &p.Psychographic
	case FieldPersonaPrompt:
		return &p.PersonaPrompt
	case FieldProfileImage:
		return &p.ProfileImage
	case FieldQuote:
		return &p.Quote
	case FieldAge:
		return &p.Age
	case FieldGender:
		return &p.Gender
	case FieldLocation:
		return &p.Location
	case FieldRelationshipStatus:
		return &p.RelationshipStatus
	case FieldTitle:
		return &p.Title
	case FieldEducation:
		return &p.Education
	case FieldDescription:
		return &p.Description
	}
	return nil
}
