package domain

// Chant is one item to align: its manuscript text and its volpiano melody.
type Chant struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	PreSyllabified bool   `json:"pre_syllabified"`
	Volpiano       string `json:"volpiano"`
}

// Validate checks the fields every chant must carry.
func (c Chant) Validate() error {
	var errs []FieldError
	if c.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// AlignStatus classifies the outcome of aligning a single chant.
type AlignStatus string

const (
	AlignStatusAligned AlignStatus = "ALIGNED"
	AlignStatusEmpty   AlignStatus = "EMPTY"
	AlignStatusFailed  AlignStatus = "FAILED"
)

func (s AlignStatus) String() string { return string(s) }

func (s AlignStatus) IsValid() bool {
	switch s {
	case AlignStatusAligned, AlignStatusEmpty, AlignStatusFailed:
		return true
	}
	return false
}
