// internal/oracle/gateway.go
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/xkilldash9x/nullpath-cli/internal/analysis/npd"
	"github.com/xkilldash9x/nullpath-cli/internal/config"
	"github.com/xkilldash9x/nullpath-cli/internal/findings"
	"github.com/xkilldash9x/nullpath-cli/internal/llmutil"
)

// ErrMissingAPIKey aborts the run before any file is processed. Credentials
// are a startup-time configuration concern, never a per-candidate one.
var ErrMissingAPIKey = errors.New("oracle API key is required (set NULLPATH_ORACLE_API_KEY)")

// Gateway is the network-backed oracle Client. It speaks the Gemini
// generateContent protocol and retries transient failures with exponential
// backoff; whatever still fails degrades to a default verdict.
type Gateway struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
	cfg        config.OracleConfig
}

var _ Client = (*Gateway)(nil)

// -- Wire structures for the generateContent protocol --

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
	Role  string         `json:"role,omitempty"`
}

type generateSystemInstruction struct {
	Parts []generatePart `json:"parts"`
}

type generateGenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []generateContent          `json:"contents"`
	SystemInstruction *generateSystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  generateGenerationConfig   `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      generateContent `json:"content"`
		FinishReason string          `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// verdictReply mirrors the JSON object the prompt demands. Pointer fields
// distinguish "absent" from "false" so the stated defaults can be applied
// per field instead of rejecting the whole reply.
type verdictReply struct {
	HasDangerousPath *bool   `json:"has_dangerous_path"`
	IsBug            *bool   `json:"is_bug"`
	Severity         *string `json:"severity"`
	PathDescription  string  `json:"path_description"`
	TriggerCondition string  `json:"trigger_condition"`
	Reason           string  `json:"reason"`
}

// NewGateway initializes the oracle gateway. Missing credentials fail fast
// here, before any analysis work begins.
func NewGateway(cfg config.OracleConfig, logger *zap.Logger) (*Gateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", cfg.Model)
	}

	return &Gateway{
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		cfg:      cfg,
		httpClient: &http.Client{
			Timeout: cfg.APITimeout,
		},
		logger: logger.Named("oracle.gateway"),
	}, nil
}

// Verify submits one candidate to the oracle and normalizes whatever comes
// back into a Verdict. It never returns an error: unreachable service,
// non-success status and unparseable replies all collapse into a degraded
// default verdict so that oracle unavailability costs recall, not the run.
func (g *Gateway) Verify(ctx context.Context, cand npd.Candidate) Verdict {
	raw, err := g.generate(ctx, buildPrompt(cand))
	if err != nil {
		g.logger.Warn("Oracle call failed; degrading candidate to default verdict",
			zap.String("function", cand.Function.Name),
			zap.String("variable", cand.Variable),
			zap.Error(err),
		)
		return degradedVerdict(fmt.Sprintf("oracle call failed: %v", err))
	}

	reply, err := llmutil.ParseJSONResponse[verdictReply](raw)
	if err != nil {
		g.logger.Warn("Oracle reply was not parseable JSON; degrading to default verdict",
			zap.String("function", cand.Function.Name),
			zap.Error(err),
		)
		return degradedVerdict(fmt.Sprintf("malformed oracle reply: %v", err))
	}

	return normalizeReply(reply)
}

// normalizeReply applies the per-field defaults for an incomplete reply:
// flowExists=false, isConfirmedBug=false, severity=Low.
func normalizeReply(reply *verdictReply) Verdict {
	v := Verdict{
		Severity:         findings.SeverityLow,
		PathDescription:  reply.PathDescription,
		TriggerCondition: reply.TriggerCondition,
		Rationale:        reply.Reason,
	}
	if reply.HasDangerousPath != nil {
		v.FlowExists = *reply.HasDangerousPath
	}
	if reply.IsBug != nil {
		v.IsConfirmedBug = *reply.IsBug
	}
	if reply.Severity != nil {
		v.Severity = findings.ParseSeverity(*reply.Severity)
	}
	return v
}

// generate performs the HTTP exchange with retries. Each attempt re-submits
// the same request body; the request is a pure function of the candidate so
// this is safe.
func (g *Gateway) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(g.buildRequest(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = g.cfg.MaxRetryElapsed
	b.MaxInterval = 30 * time.Second

	var responseContent string

	operation := func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewBuffer(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create HTTP request: %w", err))
		}

		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("x-goog-api-key", g.apiKey)

		startTime := time.Now()
		resp, err := g.httpClient.Do(httpReq)
		duration := time.Since(startTime)

		if err != nil {
			g.logger.Warn("Network error during oracle request, retrying...", zap.Error(err))
			return fmt.Errorf("failed to execute HTTP request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return g.handleAPIError(resp.StatusCode, respBody)
		}

		var payload generateResponse
		if err := json.Unmarshal(respBody, &payload); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response payload: %w", err))
		}

		if len(payload.Candidates) == 0 {
			return backoff.Permanent(errors.New("oracle returned no candidates"))
		}

		candidate := payload.Candidates[0]
		if len(candidate.Content.Parts) == 0 {
			if candidate.FinishReason == "SAFETY" || candidate.FinishReason == "BLOCKLIST" {
				return backoff.Permanent(fmt.Errorf("oracle blocked the request (reason: %s)", candidate.FinishReason))
			}
			return fmt.Errorf("oracle returned empty content parts (reason: %s)", candidate.FinishReason)
		}

		g.logger.Debug("Oracle generation complete",
			zap.Duration("duration", duration),
			zap.Int("prompt_tokens", payload.UsageMetadata.PromptTokenCount),
			zap.Int("completion_tokens", payload.UsageMetadata.CandidatesTokenCount),
			zap.Int("total_tokens", payload.UsageMetadata.TotalTokenCount),
		)

		responseContent = candidate.Content.Parts[0].Text
		return nil
	}

	if err = backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", err
	}

	return responseContent, nil
}

func (g *Gateway) buildRequest(prompt string) generateRequest {
	return generateRequest{
		Contents: []generateContent{
			{
				Role:  "user",
				Parts: []generatePart{{Text: prompt}},
			},
		},
		SystemInstruction: &generateSystemInstruction{
			Parts: []generatePart{{Text: systemPrompt}},
		},
		GenerationConfig: generateGenerationConfig{
			Temperature:      g.cfg.Temperature,
			ResponseMimeType: "application/json",
			MaxOutputTokens:  g.cfg.MaxTokens,
		},
	}
}

func (g *Gateway) handleAPIError(statusCode int, body []byte) error {
	g.logger.Error("Oracle API returned error status", zap.Int("status", statusCode), zap.ByteString("response", body))
	err := fmt.Errorf("oracle API error: status %d, body: %s", statusCode, string(body))

	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusInternalServerError:
		return err // Transient, retry.
	default:
		return backoff.Permanent(err)
	}
}
