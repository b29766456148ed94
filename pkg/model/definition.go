package model

import (
	"errors"
	"fmt"
)

// Field names of the scholarship application form.
const (
	FieldFirstName             = "firstName"
	FieldLastName              = "lastName"
	FieldEmail                 = "email"
	FieldPhone                 = "phone"
	FieldQualification         = "qualification"
	FieldGrade                 = "grade"
	FieldPreferredUniversities = "preferredUniversities"
	FieldDesiredCourse         = "desiredCourse"
	FieldJustification         = "justification"
	FieldBenefit               = "benefit"
)

// Catalog names referenced by the scholarship form.
const (
	CatalogCourses        = "courses"
	CatalogUniversities   = "universities"
	CatalogQualifications = "qualifications"
)

// PhonePattern accepts an optional leading plus followed by digits, spaces,
// dashes and parentheses.
const PhonePattern = `^\+?[0-9\s\-()]{7,15}$`

// ScholarshipDefinition returns the international scholarship application
// form.
func ScholarshipDefinition() FormDefinition {
	return FormDefinition{
		ID:          "scholarship.apply",
		Endpoint:    "/api/submit",
		Method:      "POST",
		Title:       "Apply Now!",
		Description: "This is a highly competitive scholarship opportunity, and only the top 400 applicants with the most compelling and well-thought-out responses will be selected.",
		Fields: []Field{
			{
				Name:            FieldFirstName,
				Kind:            FieldKindText,
				Label:           "First Name",
				Placeholder:     "Jane",
				Required:        true,
				RequiredMessage: "First Name is required",
			},
			{
				Name:            FieldLastName,
				Kind:            FieldKindText,
				Label:           "Last Name",
				Placeholder:     "Doe",
				Required:        true,
				RequiredMessage: "Last Name is required",
			},
			{
				Name:            FieldEmail,
				Kind:            FieldKindEmail,
				Label:           "Email",
				Placeholder:     "jane.doe@gmail.com",
				Required:        true,
				RequiredMessage: "Email is required",
				Validations: []ValidationRule{
					{Kind: ValidationRuleEmail, Message: "Enter a valid email address"},
				},
			},
			{
				Name:            FieldPhone,
				Kind:            FieldKindPhone,
				Label:           "Phone Number",
				Placeholder:     "(+44) 1234 567890",
				Required:        true,
				RequiredMessage: "Enter a valid phone number",
				Validations: []ValidationRule{
					{Kind: ValidationRuleMinLength, Params: map[string]string{"value": "7"}, Message: "Enter a valid phone number"},
					{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": "15"}, Message: "Phone number is too long"},
					{Kind: ValidationRulePhone, Params: map[string]string{"pattern": PhonePattern}, Message: "Enter a valid phone number"},
				},
			},
			{
				Name:            FieldQualification,
				Kind:            FieldKindSingleChoice,
				Label:           "Highest Level of Qualification",
				Placeholder:     "Select your qualification",
				Required:        true,
				RequiredMessage: "Please select your highest level of qualification",
				Catalog:         CatalogQualifications,
			},
			{
				Name:            FieldGrade,
				Kind:            FieldKindText,
				Label:           "Grade (GCPA Percentage or equivalent)",
				Placeholder:     "e.g., 85%",
				Required:        true,
				RequiredMessage: "Please enter your grade",
			},
			{
				Name:            FieldPreferredUniversities,
				Kind:            FieldKindMultiChoice,
				Label:           "Preferred Universities",
				Placeholder:     "Select universities",
				Required:        true,
				RequiredMessage: "At least one university must be selected",
				Catalog:         CatalogUniversities,
				Validations: []ValidationRule{
					{Kind: ValidationRuleMinItems, Params: map[string]string{"value": "1"}, Message: "At least one university must be selected"},
				},
			},
			{
				Name:            FieldDesiredCourse,
				Kind:            FieldKindSingleChoice,
				Label:           "Desired Course",
				Placeholder:     "Select a course",
				Required:        true,
				RequiredMessage: "Select a course",
				Catalog:         CatalogCourses,
			},
			{
				Name:            FieldJustification,
				Kind:            FieldKindTextArea,
				Label:           "Why do you believe you deserve this scholarship?",
				Placeholder:     "Share your reasons...",
				Required:        true,
				RequiredMessage: "Please explain why you deserve the scholarship",
				Validations: []ValidationRule{
					{Kind: ValidationRuleMinLength, Params: map[string]string{"value": "10"}, Message: "Please explain why you deserve the scholarship"},
				},
			},
			{
				Name:            FieldBenefit,
				Kind:            FieldKindTextArea,
				Label:           "How will receiving this scholarship benefit you?",
				Placeholder:     "Explain how this opportunity will help you...",
				Required:        true,
				RequiredMessage: "Please explain how this scholarship will benefit you",
				Validations: []ValidationRule{
					{Kind: ValidationRuleMinLength, Params: map[string]string{"value": "10"}, Message: "Please explain how this scholarship will benefit you"},
				},
			},
		},
	}
}

var (
	errDefinitionIDMissing = errors.New("model: definition id is required")
	errFieldNameMissing    = errors.New("model: field name is required")
)

// Validate checks the definition for structural problems: missing names,
// duplicates, unknown kinds and choice fields without a catalog.
func (d FormDefinition) Validate() error {
	if d.ID == "" {
		return errDefinitionIDMissing
	}
	seen := make(map[string]struct{}, len(d.Fields))
	for _, field := range d.Fields {
		if field.Name == "" {
			return errFieldNameMissing
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("model: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}

		if !field.Kind.Scalar() && !field.Kind.Choice() {
			return fmt.Errorf("model: field %q has unknown kind %q", field.Name, field.Kind)
		}
		if field.Kind.Choice() && field.Catalog == "" {
			return fmt.Errorf("model: choice field %q requires a catalog", field.Name)
		}
	}
	return nil
}
