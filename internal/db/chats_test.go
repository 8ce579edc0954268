package db

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"pdf-retriever/internal/models"
)

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "New Chat", deriveTitle(nil))
	assert.Equal(t, "New Chat", deriveTitle([]models.ChatTurn{
		{Role: models.RoleAssistant, Content: "hello"},
	}))

	assert.Equal(t, "short question", deriveTitle([]models.ChatTurn{
		{Role: models.RoleUser, Content: "short question"},
	}))

	long := strings.Repeat("q", 50)
	title := deriveTitle([]models.ChatTurn{
		{Role: models.RoleAssistant, Content: "preamble"},
		{Role: models.RoleUser, Content: long},
	})
	assert.Equal(t, long[:models.ChatTitleMaxLen]+"...", title)
}

func TestDeriveTitle_MultibyteContent(t *testing.T) {
	long := strings.Repeat("日", 50)
	title := deriveTitle([]models.ChatTurn{
		{Role: models.RoleUser, Content: long},
	})
	assert.True(t, utf8.ValidString(title))
	assert.Equal(t, strings.Repeat("日", models.ChatTitleMaxLen)+"...", title)
}
