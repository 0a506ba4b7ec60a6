package email

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrcontracts/internal/platform/config"
)

func TestNewReturnsNoopWhenDisabled(t *testing.T) {
	m := New(config.Config{EmailEnabled: false, SMTPHost: "smtp.example.com"})
	_, ok := m.(noopMailer)
	assert.True(t, ok)
	assert.NoError(t, m.Send(context.Background(), "rrhh@example.com", "s", "b"))
}

func TestBuildMessageHeaders(t *testing.T) {
	msg := string(BuildMessage("no-reply@example.com", "rrhh@example.com", "Contrato terminado", "cuerpo"))
	assert.True(t, strings.HasPrefix(msg, "From: no-reply@example.com\r\n"))
	assert.Contains(t, msg, "Subject: Contrato terminado\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\ncuerpo"))
}
