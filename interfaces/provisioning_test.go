package interfaces

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredential_RedactsPassword(t *testing.T) {
	cred := Credential{Email: "admin@shop.example", Password: "hunter2"}

	assert.NotContains(t, cred.String(), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", cred), "hunter2")
	assert.Contains(t, cred.String(), "admin@shop.example")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("login", "credential", cred)

	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), `"password":"<redacted>"`)
}

func TestCredential_EmptyPassword(t *testing.T) {
	cred := Credential{Email: "admin@shop.example"}
	assert.Contains(t, cred.String(), "<empty>")
}
