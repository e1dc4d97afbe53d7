package engine

//go:generate mockgen -destination=mock/mock.go -package=enginemock github.com/tatianab/onepage/internal/engine Narrator,Conversation,PortraitRenderer

import (
	"context"

	"github.com/tatianab/onepage/internal/models"
)

// Narrator opens conversations with the dungeon-master model.
type Narrator interface {
	// OpenSession starts a conversation seeded with systemInstruction.
	OpenSession(ctx context.Context, systemInstruction string, temperature float32) (Conversation, error)
}

// Conversation is one open, order-sensitive chat with the narrator. Each
// reply is conditioned on every earlier exchange.
type Conversation interface {
	Converse(ctx context.Context, text string) (string, error)
}

// PortraitRenderer turns a text prompt into an image. A nil portrait with a
// nil error means the model answered without an image.
type PortraitRenderer interface {
	RenderImage(ctx context.Context, prompt string) (*models.Portrait, error)
}
