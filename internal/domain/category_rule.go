package domain

// CategoryRule maps a description keyword to a category name for imported
// statement lines
type CategoryRule struct {
	Keyword      string
	CategoryName string
	Kind         MovementKind // Optional: only applies to this kind when set
	Priority     int          // Lower number = Evaluated first
}

// Validate ensures the rule adheres to domain rules
func (r *CategoryRule) Validate() error {
	if r.Keyword == "" {
		return InvalidInputf("category rule keyword cannot be empty")
	}
	if r.CategoryName == "" {
		return InvalidInputf("category rule %q must name a category", r.Keyword)
	}
	if r.Kind != "" && !r.Kind.Valid() {
		return InvalidInputf("category rule %q kind must be CREDIT, DEBIT or empty", r.Keyword)
	}
	return nil
}

// Applies reports whether the rule may classify a movement of the given kind
func (r *CategoryRule) Applies(kind MovementKind) bool {
	return r.Kind == "" || r.Kind == kind
}
