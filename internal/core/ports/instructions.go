package ports

// InstructionLoader reads stage instruction templates.
//
//go:generate mockgen -source=instructions.go -destination=mocks/mock_instructions.go -package=mocks
type InstructionLoader interface {
	// Load returns the instruction lines of the template at path joined with newlines.
	Load(path string) (string, error)
}
