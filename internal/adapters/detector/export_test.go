package detector

// Detect exposes the pure detection rule to tests.
func Detect(isTTY bool, ci string) LogFormat {
	return detect(isTTY, ci)
}
