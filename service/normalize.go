package service

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"taxdefense-backend/models"

	"github.com/tidwall/gjson"
)

const (
	defaultCategory   = models.CategoryOther
	defaultLegalBasis = "Not specified"
	defaultRelevance  = 5
	minRelevance      = 1
	maxRelevance      = 10

	defaultSummary    = "Analysis completed successfully."
	defaultConfidence = 0.5
	minConfidence     = 0.0
	maxConfidence     = 1.0

	noArgumentsSummary    = "Could not identify clear legal arguments in the provided text."
	noArgumentsConfidence = 0.1
	noArgumentsWarning    = "Text may be truncated or lack clear legal arguments"
)

// Keys of the model reply. The first key listed is the one the prompt asks for.
var (
	keyArguments  = []string{"argumentos", "arguments"}
	keySummary    = []string{"resumo", "summary"}
	keyConfidence = []string{"confianca", "confidence"}
	keyWarnings   = []string{"alertas", "warnings"}

	keyCategory   = []string{"categoria", "category"}
	keyLegalBasis = []string{"fundamento_legal", "legal_basis"}
	keyText       = []string{"argumento", "text"}
	keyEvidence   = []string{"evidencias", "evidence"}
	keyRelevance  = []string{"relevancia", "relevance"}
	keyPageRef    = []string{"pagina_referencia", "page_ref"}
)

// decodeReply checks that the model output is a single JSON object and returns it
// parsed. Errors carry the parser diagnostic. Numbers are kept as literals so
// out-of-range values reach the clamps instead of failing here, and duplicate
// keys resolve to their last occurrence.
func decodeReply(raw string) (gjson.Result, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return gjson.Result{}, io.ErrUnexpectedEOF
		}
		return gjson.Result{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return gjson.Result{}, errTrailingData
	}

	obj, ok := value.(map[string]any)
	if !ok {
		return gjson.Result{}, ErrNotJSONObject
	}

	canonical, err := json.Marshal(obj)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(canonical), nil
}

// normalizeReply builds the result from a decoded reply. Field anomalies are
// never errors: each field falls back to its default independently.
func normalizeReply(processID string, reply gjson.Result) *models.AnalysisResult {
	arguments := decodeArguments(lookup(reply, keyArguments))
	if len(arguments) == 0 {
		return noArgumentsResult(processID)
	}

	return &models.AnalysisResult{
		ProcessID:  processID,
		Status:     models.StatusSuccess,
		Arguments:  arguments,
		Summary:    decodeString(lookup(reply, keySummary), defaultSummary),
		Confidence: decodeFloat(lookup(reply, keyConfidence), defaultConfidence, minConfidence, maxConfidence),
		Warnings:   decodeStrings(lookup(reply, keyWarnings)),
	}
}

func noArgumentsResult(processID string) *models.AnalysisResult {
	return &models.AnalysisResult{
		ProcessID:  processID,
		Status:     models.StatusNoArgumentsFound,
		Arguments:  []models.Argument{},
		Summary:    noArgumentsSummary,
		Confidence: noArgumentsConfidence,
		Warnings:   []string{noArgumentsWarning},
	}
}

// decodeArguments keeps model order. Elements that are not objects are dropped.
func decodeArguments(v gjson.Result) []models.Argument {
	if !v.IsArray() {
		return nil
	}

	arguments := make([]models.Argument, 0)
	for _, item := range v.Array() {
		if !item.IsObject() {
			continue
		}
		arguments = append(arguments, decodeArgument(item))
	}
	return arguments
}

func decodeArgument(item gjson.Result) models.Argument {
	return models.Argument{
		Category:   decodeCategory(lookup(item, keyCategory)),
		LegalBasis: decodeString(lookup(item, keyLegalBasis), defaultLegalBasis),
		Text:       decodeString(lookup(item, keyText), ""),
		Evidence:   decodeStrings(lookup(item, keyEvidence)),
		Relevance:  decodeInt(lookup(item, keyRelevance), defaultRelevance, minRelevance, maxRelevance),
		PageRef:    decodeString(lookup(item, keyPageRef), ""),
	}
}

// lookup returns the first present, non-null key
func lookup(obj gjson.Result, keys []string) gjson.Result {
	for _, key := range keys {
		v := obj.Get(key)
		if v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func decodeCategory(v gjson.Result) models.Category {
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return defaultCategory
	}
	return models.ParseCategory(v.Str)
}

func decodeString(v gjson.Result, def string) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		// page numbers often come back as numbers
		return v.Raw
	default:
		return def
	}
}

// decodeStrings accepts an array of strings or a single string. Non-string
// elements are dropped; anything else yields an empty list.
func decodeStrings(v gjson.Result) []string {
	out := make([]string, 0)
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			if item.Type == gjson.String {
				out = append(out, item.Str)
			}
		}
	case v.Type == gjson.String && v.Str != "":
		out = append(out, v.Str)
	}
	return out
}

// decodeNumber reads a JSON number or a numeric string
func decodeNumber(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// decodeInt reads a number, defaults when absent or malformed, clamps to [lo,hi]
// and truncates any fraction.
func decodeInt(v gjson.Result, def, lo, hi int) int {
	f, ok := decodeNumber(v)
	if !ok {
		f = float64(def)
	}
	return int(clamp(f, float64(lo), float64(hi)))
}

// decodeFloat reads a number, defaults when absent or malformed, clamps to [lo,hi]
func decodeFloat(v gjson.Result, def, lo, hi float64) float64 {
	f, ok := decodeNumber(v)
	if !ok {
		f = def
	}
	return clamp(f, lo, hi)
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
