package models

type FragmentRole string

const (
	RoleQuestion    FragmentRole = "question"
	RoleOption      FragmentRole = "option"
	RoleAnswer      FragmentRole = "answer"
	RoleExplanation FragmentRole = "explanation"
	RolePlain       FragmentRole = "plain"
)

// Roles lists every fragment role in classification priority order.
var Roles = []FragmentRole{RoleQuestion, RoleOption, RoleAnswer, RoleExplanation, RolePlain}

func (r FragmentRole) Valid() bool {
	for _, role := range Roles {
		if role == r {
			return true
		}
	}
	return false
}

// Fragment is one classified unit of extracted text. Fragments are values:
// they can be assigned to a draft any number of times.
type Fragment struct {
	Role        FragmentRole `json:"role" validate:"required,fragment_role"`
	Text        string       `json:"text" validate:"required"`
	SourceOrder int          `json:"source_order"`

	// Letter is the option letter captured from the marker, if any. It is
	// positional metadata and never part of Text.
	Letter OptionLetter `json:"letter,omitempty" validate:"omitempty,option_letter"`
	Page   int          `json:"page,omitempty"`
}
