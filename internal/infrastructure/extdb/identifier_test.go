package extdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	t.Run("accepts allow-listed names", func(t *testing.T) {
		for _, name := range []string{"acmast", "purchase_orders", "T1", "a$b", "x_9"} {
			assert.NoError(t, ValidateIdentifier(name), name)
		}
	})

	t.Run("rejects injection attempts and malformed names", func(t *testing.T) {
		bad := []string{
			"",
			"users; DROP TABLE users",
			"users--",
			"users`",
			"sch.users",
			"na me",
			"näme",
		}
		for _, name := range bad {
			assert.Error(t, ValidateIdentifier(name), name)
		}
	})

	t.Run("rejects names over 64 characters", func(t *testing.T) {
		long := make([]byte, 65)
		for i := range long {
			long[i] = 'a'
		}
		assert.Error(t, ValidateIdentifier(string(long)))
	})
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`acmast`", QuoteIdentifier("acmast"))
	assert.Equal(t, "`a``b`", QuoteIdentifier("a`b"))
}
