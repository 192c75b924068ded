package model

// Preprocessor derives the static compatibility relations from the raw input
// before any search runs. Integrity defects are reported here, not discovered
// as backtracking dead ends.
type Preprocessor interface {
	BuildRelations(input ModelInput) (Relations, error)
}

func NewPreprocessor() Preprocessor {
	return &preprocessorImplementation{}
}
