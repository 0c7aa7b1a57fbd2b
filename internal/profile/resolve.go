package profile

const DefaultName = "main"

// Resolve determines the active profile name using precedence:
// 1. flagOverride (--profile flag)
// 2. configured, the config default_profile
// 3. "main"
// The chosen name is validated.
func Resolve(flagOverride, configured string) (string, error) {
	name := DefaultName
	switch {
	case flagOverride != "":
		name = flagOverride
	case configured != "":
		name = configured
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}
