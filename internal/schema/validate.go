package schema

// ValidateIdentifier checks a proposed table or column name against the
// identifier rules: it must start with an ASCII letter, contain only
// letters, digits, and underscore, and must not case-sensitively equal any
// name in existing. It is a pure function with no side effects and is used
// identically for table names (existing = accepted table names) and column
// names (existing = accepted column names of the same table).
func ValidateIdentifier(candidate string, existing []string) error {
	if candidate == "" || !isLetter(candidate[0]) {
		return newError(ErrKindMustStartWithLetter,
			"identifier %q must start with a letter", candidate)
	}
	for i := 1; i < len(candidate); i++ {
		if !isWordByte(candidate[i]) {
			return newError(ErrKindInvalidCharacters,
				"identifier %q must only contain letters, numbers and underscore", candidate)
		}
	}
	for _, name := range existing {
		if candidate == name {
			return newError(ErrKindDuplicateName, "duplicate name %q", candidate)
		}
	}
	return nil
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isWordByte(b byte) bool {
	return isLetter(b) || ('0' <= b && b <= '9') || b == '_'
}
