package config

// SensitiveString is a string that must never appear in logs or rendered
// output. Its Stringer redacts; use Value to reach the raw secret at the
// point it is actually needed (DSN construction).
type SensitiveString string

const redacted = "[REDACTED]"

func (s SensitiveString) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// Value returns the underlying secret.
func (s SensitiveString) Value() string {
	return string(s)
}

// MarshalText redacts the value in any text serialization.
func (s SensitiveString) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
