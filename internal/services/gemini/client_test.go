package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"storevisit/internal/services"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

type recorder struct {
	model    string
	contents []*genai.Content
	cfg      *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (r *recorder) generate(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	r.model = model
	r.contents = contents
	r.cfg = cfg
	return r.resp, r.err
}

func TestRespondText(t *testing.T) {
	rec := &recorder{resp: textResponse(`{"transcript":"値段が安い"}`)}
	client := newClient(Config{}, withGenerator(rec.generate), WithSystemPrompt("system"))

	got, err := client.Respond(context.Background(), services.Observation{Text: "値段が安い"})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if got != `{"transcript":"値段が安い"}` {
		t.Fatalf("unexpected text %q", got)
	}
	if rec.model != DefaultModel {
		t.Fatalf("expected default model, got %q", rec.model)
	}
	if rec.cfg.ResponseMIMEType != "application/json" || rec.cfg.SystemInstruction == nil {
		t.Fatalf("unexpected config %+v", rec.cfg)
	}
	if len(rec.contents) != 1 || len(rec.contents[0].Parts) != 1 || rec.contents[0].Parts[0].Text != "値段が安い" {
		t.Fatalf("unexpected contents %+v", rec.contents)
	}
}

func TestRespondAudioInline(t *testing.T) {
	rec := &recorder{resp: textResponse(`{"transcript":"欠品"}`)}
	client := newClient(Config{Model: "gemini-test"}, withGenerator(rec.generate))

	audio := []byte{1, 2, 3}
	if _, err := client.Respond(context.Background(), services.Observation{Audio: audio, MIMEType: "audio/webm"}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	parts := rec.contents[0].Parts
	if len(parts) != 2 || parts[1].InlineData == nil {
		t.Fatalf("expected inline audio part, got %+v", parts)
	}
	if parts[1].InlineData.MIMEType != "audio/webm" || len(parts[1].InlineData.Data) != 3 {
		t.Fatalf("unexpected inline data %+v", parts[1].InlineData)
	}
	if rec.model != "gemini-test" {
		t.Fatalf("unexpected model %q", rec.model)
	}
}

func TestRespondErrors(t *testing.T) {
	tests := []struct {
		name string
		rec  *recorder
		obs  services.Observation
		want error
	}{
		{name: "api failure", rec: &recorder{err: errors.New("boom")}, obs: services.Observation{Text: "x"}, want: services.ErrUpstreamModel},
		{name: "nil response", rec: &recorder{}, obs: services.Observation{Text: "x"}, want: services.ErrUpstreamModel},
		{name: "blank response", rec: &recorder{resp: textResponse("  ")}, obs: services.Observation{Text: "x"}, want: services.ErrUpstreamModel},
		{name: "empty observation", rec: &recorder{}, obs: services.Observation{}, want: services.ErrValidation},
		{name: "non-audio mime", rec: &recorder{}, obs: services.Observation{Audio: []byte{1}, MIMEType: "image/png"}, want: services.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(Config{}, withGenerator(tt.rec.generate))
			if _, err := client.Respond(context.Background(), tt.obs); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRespondRateLimited(t *testing.T) {
	rec := &recorder{resp: textResponse("{}")}
	client := newClient(Config{}, withGenerator(rec.generate), WithRateLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))
	if _, err := client.Respond(context.Background(), services.Observation{Text: "x"}); err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := client.Respond(ctx, services.Observation{Text: "x"}); !errors.Is(err, services.ErrUpstreamModel) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
