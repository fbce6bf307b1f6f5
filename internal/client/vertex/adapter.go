package vertexclient

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/stak-backend/internal/dto"
	"github.com/GregMSThompson/stak-backend/internal/errs"
)

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

func (a *Adapter) Name() string { return "vertex:" + a.model }

// Generate runs a single-turn prompt. Quota errors surface as RateLimitedError so
// callers can apply their retry policy.
func (a *Adapter) Generate(ctx context.Context, req dto.GenerateRequest) (string, error) {
	if a.model == "" {
		return "", fmt.Errorf("vertex model is required")
	}
	if req.Prompt == "" {
		return "", fmt.Errorf("vertex generate request has no content")
	}

	model := a.client.GenerativeModel(a.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyError(err)
	}

	text := parseContentResponse(resp)
	if text == "" {
		return "", errs.NewExternalServiceError("vertex", "empty response", false, nil)
	}
	return text, nil
}

func classifyError(err error) error {
	switch status.Code(err) {
	case codes.ResourceExhausted:
		return errs.NewRateLimitedError("vertex")
	case codes.Unavailable, codes.DeadlineExceeded, codes.Internal:
		return errs.NewExternalServiceError("vertex", "generate failed", true, err)
	default:
		return errs.NewExternalServiceError("vertex", "generate failed", false, err)
	}
}

func parseContentResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var text string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if p, ok := part.(genai.Text); ok {
				text += string(p)
			}
		}
		if text != "" {
			break
		}
	}

	return text
}
