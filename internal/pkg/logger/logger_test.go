package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.in), tt.in)
	}
}

func TestLog_RedactsRecipientField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, DEBUG, true)

	l.log(INFO, "email registered", "email_id", "abc123", "recipient", "jane.roe@example.com")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "email registered", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "abc123", entry["email_id"])
	assert.Equal(t, "ja***@example.com", entry["recipient"])
}

func TestLog_EmptyRecipientStaysEmpty(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, DEBUG, true)

	l.log(INFO, "email registered", "email_id", "abc123", "recipient", "")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "", entry["recipient"])
}

func TestLog_RedactsEmbeddedAddresses(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, DEBUG, true)

	l.log(WARN, "lookup failed", "detail", "sent to mark@example.org today")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sent to ma***@example.org today", entry["detail"])
}

func TestLog_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, WARN, false)

	l.log(INFO, "dropped")
	assert.Zero(t, buf.Len())

	l.log(ERROR, "kept", "recipient", "jane.roe@example.com")
	assert.Contains(t, buf.String(), "jane.roe@example.com")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, ERROR, ParseLevel("error"))
	assert.Equal(t, INFO, ParseLevel("bogus"))
}
