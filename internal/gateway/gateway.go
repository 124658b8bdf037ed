// Package gateway turns pantry photos into inventory detections and
// soon-to-expire stock into recipe suggestions using an LLM.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"kitchenops/internal/models"

	"github.com/tmc/langchaingo/llms"
)

// ErrGatewayFailure wraps transport and parse failures of the AI provider
var ErrGatewayFailure = errors.New("ai gateway failure")

// Operation names, also used as metric labels
const (
	OpAnalyzeImage    = "analyze_image"
	OpGenerateRecipes = "generate_recipes"
)

// Outcome labels reported to the Recorder
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeBusy       = "busy"
	OutcomeSuperseded = "superseded"
)

const imagePrompt = `Analyze this image of a hotel kitchen pantry or delivery area.
Identify distinct commercial food items or packaging (crates, cases, #10 cans, whole cuts of meat).

For each item, provide:
1. name: a commercial product name (e.g. "Whole Milk 4L", "San Marzano Tomatoes Case").
2. category: one of Dry Storage, Cold Room, Freezer, Meat & Seafood, Produce, Dairy & Eggs, Alcohol & Bar, Cleaning & Supplies.
3. quantity: estimated count of distinct units or cases.
4. unit: one of Case, kg, L, Bottle, Can, Pack, Unit.
5. daysUntilExpiry: estimated shelf life in days from now (be conservative for food safety).

Return ONLY a JSON object of the form {"items": [{"name": ..., "category": ..., "quantity": ..., "unit": ..., "daysUntilExpiry": ...}]}.`

const recipePromptTemplate = `You are the Head Chef of a hotel.
We have the following items expiring soon that need to be used to reduce waste cost:
%s

Suggest 3 "Daily Specials" or "Staff Meals" to use these up.

Return ONLY a JSON object of the form {"recipes": [{"id": ..., "title": ..., "type": "Daily Special" | "Staff Meal" | "Soup of Day", "ingredientsUsed": [...], "profitMarginPotential": "High" | "Medium" | "Low", "notes": ...}]}.`

// Detection is one item recognised in a pantry photo
type Detection struct {
	Name            string          `json:"name"`
	Category        models.Category `json:"category"`
	Quantity        float64         `json:"quantity"`
	Unit            models.Unit     `json:"unit"`
	DaysUntilExpiry float64         `json:"daysUntilExpiry"`
}

// Recorder observes gateway calls
type Recorder interface {
	ObserveGateway(operation, outcome string, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGateway(string, string, time.Duration) {}

// Gateway is the AI collaborator of the intake and specials flows
type Gateway struct {
	text     llms.Model
	vision   llms.Model
	timeout  time.Duration
	recorder Recorder

	imageSlot  *Slot
	recipeSlot *Slot
}

// Option configures a Gateway
type Option func(*Gateway)

// WithVisionModel uses a separate model for image analysis
func WithVisionModel(m llms.Model) Option {
	return func(g *Gateway) { g.vision = m }
}

// WithTimeout bounds each provider call
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

// WithRecorder reports call outcomes and latency
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

// WithPolicy sets the slot policy of both operations
func WithPolicy(p Policy) Option {
	return func(g *Gateway) {
		g.imageSlot = NewSlot(OpAnalyzeImage, p)
		g.recipeSlot = NewSlot(OpGenerateRecipes, p)
	}
}

// New creates a gateway over model
func New(model llms.Model, opts ...Option) *Gateway {
	g := &Gateway{
		text:       model,
		vision:     model,
		timeout:    60 * time.Second,
		recorder:   nopRecorder{},
		imageSlot:  NewSlot(OpAnalyzeImage, PolicyReject),
		recipeSlot: NewSlot(OpGenerateRecipes, PolicyReject),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AnalyzeImage asks the vision model for the items visible in image.
// An empty result is not an error.
func (g *Gateway) AnalyzeImage(ctx context.Context, image []byte, mimeType string) ([]Detection, error) {
	var detections []Detection
	err := g.run(ctx, g.imageSlot, OpAnalyzeImage, func(ctx context.Context) error {
		resp, err := g.vision.GenerateContent(ctx, []llms.MessageContent{
			{
				Role: llms.ChatMessageTypeHuman,
				Parts: []llms.ContentPart{
					llms.BinaryPart(mimeType, image),
					llms.TextPart(imagePrompt),
				},
			},
		}, llms.WithJSONMode())
		if err != nil {
			return err
		}

		raw, err := decodeList[rawDetection](firstChoice(resp), "items")
		if err != nil {
			return err
		}
		for _, r := range raw {
			d := r.detection()
			if d.Name == "" {
				continue
			}
			detections = append(detections, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detections, nil
}

// GenerateRecipes asks the text model for specials that use the priority items.
// Each priority item is a "<quantity> <unit> <name>" line.
func (g *Gateway) GenerateRecipes(ctx context.Context, priority []string) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := g.run(ctx, g.recipeSlot, OpGenerateRecipes, func(ctx context.Context) error {
		prompt := fmt.Sprintf(recipePromptTemplate, strings.Join(priority, ", "))
		resp, err := g.text.GenerateContent(ctx, []llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		}, llms.WithJSONMode())
		if err != nil {
			return err
		}

		raw, err := decodeList[rawRecipe](firstChoice(resp), "recipes")
		if err != nil {
			return err
		}
		for _, r := range raw {
			recipes = append(recipes, r.recipe())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// run executes call inside the operation's slot and maps its error
func (g *Gateway) run(ctx context.Context, slot *Slot, op string, call func(context.Context) error) error {
	start := time.Now()

	slotCtx, release, err := slot.Acquire(ctx)
	if err != nil {
		outcome := OutcomeBusy
		if errors.Is(err, ErrSuperseded) {
			outcome = OutcomeSuperseded
		}
		g.recorder.ObserveGateway(op, outcome, time.Since(start))
		return err
	}
	defer release()

	callCtx, cancel := context.WithTimeout(slotCtx, g.timeout)
	defer cancel()

	err = call(callCtx)
	switch {
	case err == nil:
		g.recorder.ObserveGateway(op, OutcomeSuccess, time.Since(start))
		return nil
	case Superseded(slotCtx):
		g.recorder.ObserveGateway(op, OutcomeSuperseded, time.Since(start))
		return ErrSuperseded
	default:
		g.recorder.ObserveGateway(op, OutcomeFailure, time.Since(start))
		slog.Error("AI gateway call failed", "operation", op, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrGatewayFailure, op, err)
	}
}

func firstChoice(resp *llms.ContentResponse) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return resp.Choices[0].Content
}
