package service

import (
	"context"
	"fmt"
	"time"

	"taxdefense-backend/llm"
	"taxdefense-backend/logger"
	"taxdefense-backend/metrics"
	"taxdefense-backend/models"

	"github.com/shopspring/decimal"
)

const (
	temperature = 0.1
	maxTokens   = 4000
	topP        = 0.95
)

// AnalysisService interprets tax-defense documents through an external model.
// It holds no mutable state and is safe for concurrent use.
type AnalysisService struct {
	llmClient llm.Client
	apiKey    string
	model     string
	metrics   *metrics.Recorder
	logger    logger.Logger
}

// AnalysisServiceOption is a functional option for AnalysisService
type AnalysisServiceOption func(*AnalysisService)

// AnalysisWithLLMClient sets the model service client
func AnalysisWithLLMClient(client llm.Client) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.llmClient = client
	}
}

// AnalysisWithAPIKey sets the model service credential. An empty key makes every
// analysis fail with a configuration error.
func AnalysisWithAPIKey(apiKey string) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.apiKey = apiKey
	}
}

// AnalysisWithModel sets the model identifier
func AnalysisWithModel(model string) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.model = model
	}
}

// AnalysisWithMetrics sets the metrics recorder
func AnalysisWithMetrics(recorder *metrics.Recorder) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.metrics = recorder
	}
}

// AnalysisWithLogger sets the logger used when the request context carries none
func AnalysisWithLogger(l logger.Logger) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.logger = l
	}
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		model: "gpt-4o-mini",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeRequest represents a request to analyze a defense document
type AnalyzeRequest struct {
	Submission models.CaseSubmission
}

// AnalyzeResult represents the result of an analysis
type AnalyzeResult struct {
	Analysis *models.AnalysisResult
	// Truncated reports that only the first part of the document reached the model
	Truncated bool
}

// CredentialConfigured reports whether a model service credential is set
func (s *AnalysisService) CredentialConfigured() bool {
	return s.apiKey != ""
}

// CheckConfigured returns a configuration error when the service cannot call the model
func (s *AnalysisService) CheckConfigured() error {
	if s.apiKey == "" {
		return newAnalysisError(KindConfiguration, ErrMissingCredential)
	}
	if s.llmClient == nil {
		return newAnalysisError(KindConfiguration, ErrMissingClient)
	}
	return nil
}

// Analyze runs the pipeline: prompt assembly, one model call, decoding and
// normalization. Every error returned is an *AnalysisError.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (result *AnalyzeResult, err error) {
	sub := req.Submission
	log := s.loggerFor(ctx).With("process_id", sub.ProcessID)

	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = newAnalysisError(KindInternal, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			log.Error("Analysis failed", "kind", KindOf(err), "error", err)
			s.metrics.ObserveAnalysis(string(KindOf(err)))
			return
		}
		s.metrics.ObserveAnalysis(string(result.Analysis.Status))
	}()

	// 1. Credential must be present before anything leaves the process
	if err := s.CheckConfigured(); err != nil {
		return nil, err
	}

	// 2. Build prompt
	userPrompt, truncated := buildCaseContext(sub)
	if truncated {
		log.Debug("Document text truncated", "max_chars", maxDocumentChars)
	}

	// 3. Single model call, not tied to the caller's cancellation
	start := time.Now()
	raw, err := s.llmClient.Complete(context.WithoutCancel(ctx), llm.Request{
		Model:        s.model,
		System:       systemPrompt,
		User:         userPrompt,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		TopP:         topP,
		JSONResponse: true,
	})
	s.metrics.ObserveUpstream(s.llmClient.Provider(), time.Since(start))
	if err != nil {
		return nil, newAnalysisError(KindUpstream, err)
	}

	// 4. Decode
	reply, err := decodeReply(raw)
	if err != nil {
		return nil, newAnalysisError(KindDecoding, err)
	}

	// 5. Normalize
	analysis := normalizeReply(sub.ProcessID, reply)
	log.Info("Analysis completed",
		"status", analysis.Status,
		"arguments", len(analysis.Arguments),
		"confidence", analysis.Confidence,
	)

	return &AnalyzeResult{Analysis: analysis, Truncated: truncated}, nil
}

func (s *AnalysisService) loggerFor(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(logger.LoggerCtxKey).(logger.Logger); ok && l != nil {
		return l
	}
	if s.logger != nil {
		return s.logger
	}
	return logger.FromContext(ctx)
}

// SelfTestSubmission returns the built-in sample used by the self-test endpoint
func SelfTestSubmission() models.CaseSubmission {
	return models.CaseSubmission{
		ProcessID:     "TESTE-001",
		DocumentText:  "Venho por meio desta impugnar o auto de infração, alegando prescrição do direito de constituir o crédito tributário conforme artigo 173 do CTN, uma vez que o lançamento ocorreu após 5 anos.",
		AssessmentRef: "AI-TESTE-123",
		TaxpayerName:  "Empresa Teste Ltda",
		FineAmount:    decimal.NewFromInt(10000),
	}
}

// SelfTest analyzes the built-in sample submission
func (s *AnalysisService) SelfTest(ctx context.Context) (*AnalyzeResult, error) {
	return s.Analyze(ctx, AnalyzeRequest{Submission: SelfTestSubmission()})
}
