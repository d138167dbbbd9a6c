package registry

// ResolveFlag resolves a single scalar configuration value across the three
// scopes. The agent value wins if set, then the project value, then the
// framework base. The framework value is the compiled-in default and is always
// present; project and agent values use nil to mean "inherit downward".
//
// This is pure precedence, not a merge: a set value at a higher scope fully
// shadows the lower scopes, including an explicit "false" or zero value.
func ResolveFlag[T any](framework T, project, agent *T) T {
	if agent != nil {
		return *agent
	}
	if project != nil {
		return *project
	}
	return framework
}
