package model

// Constraint expressions shared by the HTML attributes and the terminal
// prompts.
const (
	PhonePattern = `[0-9]{10}`
	EmailPattern = `^[\w.+\-]+@gmail\.com$`
	PINPattern   = `\d{4}-\d{4}-\d{4}-\d{4}`
)

// InterestFormID identifies the built-in form.
const InterestFormID = "submitInterest"

// InterestForm returns the built-in Spidr interest form table.
func InterestForm() FormModel {
	return FormModel{
		ID:       InterestFormID,
		Title:    "Spidr Interest Form",
		Endpoint: "/submissions",
		Method:   "POST",
		Fields: []Field{
			{Name: FieldFirstName, Label: "First Name", Type: FieldTypeText, Required: true},
			{Name: FieldLastName, Label: "Last Name", Type: FieldTypeText, Required: true},
			{
				Name:      FieldPhone,
				Label:     "Phone Number",
				Type:      FieldTypeTel,
				Required:  true,
				Pattern:   PhonePattern,
				MaxLength: 10,
				InputMode: "numeric",
				KeyFilter: KeyFilterDigits,
			},
			{
				Name:     FieldEmail,
				Label:    "Email Address",
				Type:     FieldTypeEmail,
				Required: true,
				Pattern:  EmailPattern,
			},
			{Name: FieldAirFryerCost, Label: "Guess the air fryer’s cost", Type: FieldTypeText, Required: true},
			{
				Name:      FieldSpidrPin,
				Label:     "16-digit Spidr PIN (####-####-####-####)",
				Type:      FieldTypeText,
				Required:  true,
				Pattern:   PINPattern,
				Transform: TransformPIN,
			},
		},
	}
}
