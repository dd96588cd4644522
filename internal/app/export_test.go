package app

// SetRunID makes every run of a use id.
func (a *App) SetRunID(id string) {
	a.newID = func() string { return id }
}
