package extdb

import (
	"regexp"
	"strings"

	"github.com/procurehub/backend/internal/domain/shared"
)

// Tenant-supplied table and column names are interpolated into SQL text
// because identifiers cannot be parameter-bound. They are therefore both
// validated against an allow-list and backtick-quoted before use.

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// ValidateIdentifier checks a tenant-configured table or column name against
// the allow-listed character set.
func ValidateIdentifier(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot be empty")
	}
	if len(name) > 64 {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier cannot exceed 64 characters")
	}
	if !identifierPattern.MatchString(name) {
		return shared.NewDomainError("INVALID_IDENTIFIER", "Identifier contains characters outside [A-Za-z0-9_$]")
	}
	return nil
}

// QuoteIdentifier backtick-quotes an identifier for MySQL, escaping embedded
// backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
