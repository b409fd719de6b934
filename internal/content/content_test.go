package content

import (
	"context"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcampos/vendahub/internal/db"
)

type stubCompleter struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.content}},
		},
	}, nil
}

func TestGenerate(t *testing.T) {
	stub := &stubCompleter{content: `{
		"title": "Fone Bluetooth TWS com Cancelamento de Ruído",
		"description": "Som de alta qualidade para o dia a dia.",
		"tags": ["fone bluetooth", "tws", "cancelamento de ruído"]
	}`}
	gen := NewGenerator(stub, "")

	result, err := gen.Generate(context.Background(), &Request{
		ProductName: "Fone Bluetooth TWS",
		Category:    "electronics",
		Marketplace: "mercado_livre",
	})
	require.NoError(t, err)

	assert.Equal(t, "Fone Bluetooth TWS com Cancelamento de Ruído", result.Title)
	assert.NotEmpty(t, result.Description)
	assert.Len(t, result.Tags, 3)

	// Prompt carries the marketplace rules and the product
	require.Len(t, stub.lastReq.Messages, 2)
	assert.Contains(t, stub.lastReq.Messages[0].Content, "60 characters")
	assert.Contains(t, stub.lastReq.Messages[1].Content, "Fone Bluetooth TWS")
}

func TestGenerateCodeFencedOutput(t *testing.T) {
	stub := &stubCompleter{content: "```json\n{\"title\": \"T\", \"description\": \"D\", \"tags\": [\"a\"]}\n```"}
	gen := NewGenerator(stub, "")

	result, err := gen.Generate(context.Background(), &Request{
		ProductName: "Produto",
		Marketplace: "shopee",
	})
	require.NoError(t, err)
	assert.Equal(t, "T", result.Title)
}

func TestGenerateUnknownMarketplace(t *testing.T) {
	gen := NewGenerator(&stubCompleter{}, "")

	_, err := gen.Generate(context.Background(), &Request{
		ProductName: "Produto",
		Marketplace: "amazon",
	})
	assert.Error(t, err)
}

func TestGenerateMalformedOutput(t *testing.T) {
	stub := &stubCompleter{content: "not json at all"}
	gen := NewGenerator(stub, "")

	_, err := gen.Generate(context.Background(), &Request{
		ProductName: "Produto",
		Marketplace: "shopee",
	})
	assert.Error(t, err)
}

func TestSaveAndList(t *testing.T) {
	path := t.TempDir() + "/test.db"
	database, err := db.New(path)
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations())
	t.Cleanup(func() { database.Close() })

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = database.Exec(`
		INSERT INTO users (id, email, encrypted_password, created_at, updated_at)
		VALUES ('seller-1', 'seller-1@example.com', 'x', ?, ?)`, now, now)
	require.NoError(t, err)

	store := NewStore(database)
	g := &Generated{
		UserID:      "seller-1",
		Marketplace: "shopee",
		Style:       "casual",
		Title:       "Título gerado",
		Description: "Descrição gerada",
		Tags:        []string{"tag1", "tag2"},
	}
	require.NoError(t, store.Save(g))

	list, err := store.List("seller-1", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Título gerado", list[0].Title)
	assert.Equal(t, []string{"tag1", "tag2"}, list[0].Tags)
}
